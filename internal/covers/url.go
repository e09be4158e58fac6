package covers

import "strings"

const (
	thumbSizeToken = "t_thumb"
	coverSizeToken = "t_cover_big"
)

// NormalizeImageURL rewrites a catalog image reference to the
// high-resolution cover variant with an explicit scheme. The provider
// returns scheme-relative URLs pointing at the thumbnail rendition
// (e.g. "//images.igdb.com/.../t_thumb/abc.jpg").
func NormalizeImageURL(url string) string {
	if url == "" {
		return ""
	}

	normalized := strings.Replace(url, thumbSizeToken, coverSizeToken, 1)
	if strings.HasPrefix(normalized, "//") {
		normalized = "https:" + normalized
	}
	return normalized
}
