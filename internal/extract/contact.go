package extract

import (
	"context"
	"strings"

	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/PuerkitoBio/goquery"
)

var contactPaths = []string{"/pages/contact", "/pages/contact-us", "/contact"}

// ContactInfo probes the conventional contact paths in order and harvests the
// first retrievable page: emails and phone numbers from the visible text plus
// any mailto:/tel: anchors. Results are deduplicated and sorted.
func ContactInfo(ctx context.Context, f PageFetcher, base string) profile.Contact {
	var c profile.Contact

	for _, path := range contactPaths {
		doc := f.Page(ctx, base, path)
		if doc == nil {
			continue
		}

		txt := pageText(doc)
		emails := textutil.Emails(txt)
		phones := textutil.Phones(txt)

		doc.Find(`a[href^="mailto:"], a[href^="tel:"]`).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			switch {
			case strings.HasPrefix(href, "mailto:"):
				emails = append(emails, strings.TrimSpace(strings.TrimPrefix(href, "mailto:")))
			case strings.HasPrefix(href, "tel:"):
				phones = append(phones, strings.TrimSpace(strings.TrimPrefix(href, "tel:")))
			}
		})

		c.Emails = textutil.DedupeSorted(emails)
		c.Phones = textutil.DedupeSorted(phones)
		c.ContactPage = textutil.Absolutize(base, path)
		break
	}
	return c
}
