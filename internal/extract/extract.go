// Package extract turns fetched storefront pages into typed brand facts.
// Every extractor is best-effort over uncontrolled third-party markup: when
// a page is missing, malformed or challenged, the extractor yields an absent
// value and the rest of the profile is unaffected.
package extract

import (
	"context"

	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/PuerkitoBio/goquery"
)

// PageFetcher is the fetch capability extractors depend on. A nil document
// or a false ok means the page is absent; extractors never see transport
// errors.
type PageFetcher interface {
	Page(ctx context.Context, base, path string) *goquery.Document
	JSON(ctx context.Context, url string, v any) bool
}

// pageText returns the collapsed visible text of a document, with script and
// style contents stripped.
func pageText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	return textutil.Collapse(doc.Text())
}
