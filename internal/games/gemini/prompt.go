package gemini

import "fmt"

// Supported locales. Anything other than en-US falls back to pt-BR,
// the app's primary audience.
const (
	LocalePTBR = "pt-BR"
	LocaleENUS = "en-US"
)

const systemInstruction = "You are the Retro Codex AI. Your only function is to return JSON data " +
	"about video games released between 1970 and 2000."

func buildSearchPrompt(query, locale string) string {
	if locale == LocaleENUS {
		return fmt.Sprintf(`CLASSIC GAMES SEARCH: %q.

You are a retro console database.
FOCUS: Master System, Mega Drive/Genesis, NES, SNES, GameBoy, PS1.

CRITICAL RULES:
1. List only games released until the year 2000.
2. If the user types a generic name like "Sonic" or "Mario", list the most famous titles from the consoles above.
3. If the search is strictly modern (e.g., "PS5", "GTA 5", "Elden Ring"), set isModernRequest to true.
4. Return maximum 10 real results.
5. The response MUST be a valid JSON object.`, query)
	}

	return fmt.Sprintf(`BUSCA DE JOGOS CLÁSSICOS: %q.

Você é um banco de dados de consoles retro.
FOCO: Master System, Mega Drive/Genesis, NES, SNES, GameBoy, PS1.

REGRAS CRÍTICAS:
1. Liste apenas jogos lançados até o ano 2000.
2. Se o usuário digitar um nome genérico como "Sonic" ou "Mario", liste os títulos mais famosos dos consoles acima.
3. Se a busca for estritamente moderna (ex: "PS5", "GTA 5", "Elden Ring"), marque isModernRequest como true.
4. Retorne no máximo 10 resultados reais.
5. A resposta DEVE ser um objeto JSON válido.`, query)
}

func buildDetailPrompt(name, platform, locale string) string {
	if locale == LocaleENUS {
		return fmt.Sprintf(`Generate a full guide for %q on %q.
Include:
- Nostalgic historical summary.
- Release date.
- CODES LIST (Cheat codes, Passwords, GameShark).
- TIPS AND SECRETS.`, name, platform)
	}

	return fmt.Sprintf(`Gere um guia completo para %q no %q.
Inclua:
- Resumo histórico nostálgico.
- Data de lançamento.
- LISTA DE CÓDIGOS (Cheat codes, Passwords, GameShark).
- DICAS E SEGREDOS.`, name, platform)
}
