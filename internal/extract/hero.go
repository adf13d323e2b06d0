package extract

import (
	"strings"

	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/PuerkitoBio/goquery"
)

// maxHeroProducts caps how many home-page product links become hero products.
const maxHeroProducts = 8

// HeroProducts scans home-page anchors whose href contains "/products/", in
// document order, deduplicated by absolute URL. The title comes from the
// anchor's title attribute, its visible text, or a contained image's alt
// text; anchors with no resolvable title are skipped.
func HeroProducts(doc *goquery.Document, base string) []profile.Product {
	if doc == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []profile.Product

	doc.Find(`a[href*="/products/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		abs := textutil.Absolutize(base, href)
		if abs == "" {
			return true
		}
		if _, dup := seen[abs]; dup {
			return true
		}

		title := strings.TrimSpace(a.AttrOr("title", ""))
		if title == "" {
			title = textutil.Collapse(a.Text())
		}
		if title == "" {
			title = strings.TrimSpace(a.Find("img").First().AttrOr("alt", ""))
		}
		if title == "" {
			return true
		}

		out = append(out, profile.Product{Title: title, URL: abs})
		seen[abs] = struct{}{}
		return len(out) < maxHeroProducts
	})

	return out
}
