package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BrandName derives the brand name from the home page: the document title up
// to the first "|" separator, falling back to the og:site_name meta tag.
func BrandName(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		return strings.TrimSpace(strings.SplitN(title, "|", 2)[0])
	}

	site, _ := doc.Find(`meta[property="og:site_name"]`).Attr("content")
	return strings.TrimSpace(site)
}
