// Package gemini implements the generative search and detail clients.
// Both follow the same pattern: a domain-constrained prompt, a
// schema-constrained JSON response, normalization of the raw text through
// jsonclean, then defensive decoding into domain types.
package gemini

import (
	"context"
	"encoding/json"

	"google.golang.org/genai"

	"retrocodex_backend/internal/covers"
	"retrocodex_backend/internal/games/domain"
	"retrocodex_backend/platform/ai/jsonclean"
	"retrocodex_backend/platform/config"
	"retrocodex_backend/platform/logger"
)

const (
	searchThinkingBudget int32 = 1000
	detailThinkingBudget int32 = 2000
)

// contentGenerator is the slice of the genai SDK the clients depend on.
// Tests substitute a fake.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client issues search and detail calls against the generative model.
type Client struct {
	models contentGenerator
	model  string
	log    *logger.Logger
}

// NewClient creates a client backed by the Gemini API.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		models: genaiClient.Models,
		model:  cfg.GetGeminiModel(),
		log:    log,
	}, nil
}

// newClientWithGenerator is the test seam.
func newClientWithGenerator(gen contentGenerator, model string, log *logger.Logger) *Client {
	return &Client{models: gen, model: model, log: log}
}

var searchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"games": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":               {Type: genai.TypeNumber},
					"name":             {Type: genai.TypeString},
					"platform":         {Type: genai.TypeString},
					"year":             {Type: genai.TypeString},
					"briefDescription": {Type: genai.TypeString},
					"coverUrl":         {Type: genai.TypeString},
				},
				Required: []string{"id", "name", "platform", "year", "briefDescription"},
			},
		},
		"isModernRequest": {Type: genai.TypeBoolean},
	},
	Required: []string{"games", "isModernRequest"},
}

var detailSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":     {Type: genai.TypeString},
		"releaseDate": {Type: genai.TypeString},
		"cheats":      {Type: genai.TypeString},
		"tips":        {Type: genai.TypeString},
	},
	Required: []string{"summary", "releaseDate", "cheats", "tips"},
}

type searchPayload struct {
	Games []struct {
		ID               int    `json:"id"`
		Name             string `json:"name"`
		Platform         string `json:"platform"`
		Year             string `json:"year"`
		BriefDescription string `json:"briefDescription"`
		CoverURL         string `json:"coverUrl"`
	} `json:"games"`
	IsModernRequest bool `json:"isModernRequest"`
}

// Search asks the model for classic games matching the query. The returned
// Outcome carries the internal failure kind; callers enforcing the external
// contract fold failures into an empty result set themselves.
func (c *Client) Search(ctx context.Context, query, locale string) Outcome {
	resp, err := c.models.GenerateContent(ctx, c.model,
		genai.Text(buildSearchPrompt(query, locale)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    searchSchema,
			ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(searchThinkingBudget)},
		})
	if err != nil {
		c.log.UpstreamError("gemini", "search", err)
		return Outcome{Kind: OutcomeTransportError, Err: err}
	}

	cleaned := jsonclean.Response(resp.Text())

	var payload searchPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		c.log.UpstreamError("gemini", "search_decode", err)
		return Outcome{Kind: OutcomeSchemaError, Err: err}
	}

	if payload.IsModernRequest {
		return Outcome{Kind: OutcomeOutOfDomain, Results: []domain.SearchResult{}}
	}

	results := make([]domain.SearchResult, 0, len(payload.Games))
	for _, g := range payload.Games {
		results = append(results, domain.SearchResult{
			ID:               g.ID,
			Name:             g.Name,
			Platform:         g.Platform,
			Year:             g.Year,
			BriefDescription: g.BriefDescription,
			// The model sometimes supplies its own cover reference;
			// normalize it the same way catalog covers are.
			CoverURL: covers.NormalizeImageURL(g.CoverURL),
		})
	}

	return Outcome{Kind: OutcomeOK, Results: results}
}

// Detail fetches the narrative/cheats/tips payload for one game.
// Returns nil on any failure; the caller must treat nil as "details
// unavailable", not as an empty-but-valid result.
func (c *Client) Detail(ctx context.Context, name, platform, locale string) *domain.DetailFields {
	resp, err := c.models.GenerateContent(ctx, c.model,
		genai.Text(buildDetailPrompt(name, platform, locale)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   detailSchema,
			ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(detailThinkingBudget)},
		})
	if err != nil {
		c.log.UpstreamError("gemini", "detail", err)
		return nil
	}

	cleaned := jsonclean.Response(resp.Text())

	var fields domain.DetailFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		c.log.UpstreamError("gemini", "detail_decode", err)
		return nil
	}

	return &fields
}
