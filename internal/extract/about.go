package extract

import (
	"context"

	"github.com/FranksOps/shoplens/pkg/textutil"
)

// aboutExcerptLen bounds the stored about text.
const aboutExcerptLen = 1200

var aboutPaths = []string{"/pages/about", "/pages/our-story", "/pages/about-us"}

// AboutText probes the conventional about paths in order and returns an
// excerpt of the first retrievable page's text, or "" when none resolves.
func AboutText(ctx context.Context, f PageFetcher, base string) string {
	for _, path := range aboutPaths {
		doc := f.Page(ctx, base, path)
		if doc == nil {
			continue
		}
		return textutil.Excerpt(pageText(doc), aboutExcerptLen)
	}
	return ""
}
