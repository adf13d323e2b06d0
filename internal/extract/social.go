package extract

import (
	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/PuerkitoBio/goquery"
)

// Social maps platform names to the first matching link on the home page.
// Hrefs are kept exactly as written; the first anchor per platform wins.
func Social(doc *goquery.Document) map[string]string {
	out := map[string]string{}
	if doc == nil {
		return out
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		key := textutil.ClassifySocial(href)
		if key == "" {
			return
		}
		if _, done := out[key]; !done {
			out[key] = href
		}
	})
	return out
}
