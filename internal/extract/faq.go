package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/PuerkitoBio/goquery"
)

var faqPaths = []string{"/pages/faq", "/pages/faqs", "/pages/help", "/pages/support"}

type ldFAQPage struct {
	Type       string      `json:"@type"`
	MainEntity []ldQuestion `json:"mainEntity"`
}

type ldQuestion struct {
	Name           string          `json:"name"`
	AcceptedAnswer json.RawMessage `json:"acceptedAnswer"`
}

type ldAnswer struct {
	Text string `json:"text"`
}

// FAQs probes the conventional FAQ paths in order and returns the pairs from
// the first page that yields any. Both JSON-LD FAQPage blocks and
// <details><summary> markup are read from the same page; JSON-LD pairs come
// first.
func FAQs(ctx context.Context, f PageFetcher, base string) []profile.FAQItem {
	for _, path := range faqPaths {
		doc := f.Page(ctx, base, path)
		if doc == nil {
			continue
		}
		pageURL := textutil.Absolutize(base, path)

		faqs := ldFAQs(doc, pageURL)
		faqs = append(faqs, detailsFAQs(doc, pageURL)...)
		if len(faqs) > 0 {
			return faqs
		}
	}
	return []profile.FAQItem{}
}

func ldFAQs(doc *goquery.Document, pageURL string) []profile.FAQItem {
	var out []profile.FAQItem
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var page ldFAQPage
		if err := json.Unmarshal([]byte(s.Text()), &page); err != nil {
			return
		}
		if page.Type != "FAQPage" {
			return
		}
		for _, ent := range page.MainEntity {
			q := strings.TrimSpace(ent.Name)

			var ans ldAnswer
			// acceptedAnswer is occasionally a list or a bare string in the
			// wild; anything that is not an object is treated as no answer.
			_ = json.Unmarshal(ent.AcceptedAnswer, &ans)
			a := strings.TrimSpace(ans.Text)

			if q != "" && a != "" {
				out = append(out, profile.FAQItem{Question: q, Answer: a, URL: pageURL})
			}
		}
	})
	return out
}

func detailsFAQs(doc *goquery.Document, pageURL string) []profile.FAQItem {
	var out []profile.FAQItem
	doc.Find("details").Each(func(_ int, det *goquery.Selection) {
		q := textutil.Collapse(det.Find("summary").First().Text())
		a := textutil.Collapse(det.Text())
		if q != "" && a != "" {
			out = append(out, profile.FAQItem{Question: q, Answer: a, URL: pageURL})
		}
	})
	return out
}
