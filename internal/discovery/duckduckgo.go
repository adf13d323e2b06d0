package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SearchFetcher fetches an arbitrary page with a browser-like identity.
// Search engines refuse the fixed crawler agent.
type SearchFetcher interface {
	SearchPage(ctx context.Context, targetURL string) *goquery.Document
}

// DuckDuckGo scrapes the DuckDuckGo HTML results endpoint, which renders
// without JavaScript.
type DuckDuckGo struct {
	fetcher SearchFetcher
}

// NewDuckDuckGo returns a Provider backed by the HTML results endpoint.
func NewDuckDuckGo(f SearchFetcher) *DuckDuckGo {
	return &DuckDuckGo{fetcher: f}
}

// Search returns the absolute outbound links on the first results page, in
// document order. Redirect-wrapped links are unwrapped to their targets.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]string, error) {
	searchURL := "https://duckduckgo.com/html/?q=" + url.QueryEscape(query)

	doc := d.fetcher.SearchPage(ctx, searchURL)
	if doc == nil {
		return nil, fmt.Errorf("discovery: results page unavailable for %q", query)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if target := unwrapResult(href); target != "" {
			links = append(links, target)
		}
	})
	return links, nil
}

// unwrapResult turns a results-page href into an absolute outbound URL.
// DuckDuckGo wraps results as /l/?uddg=<escaped target>; everything else is
// kept only if already an absolute http(s) link off the search engine itself.
func unwrapResult(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if strings.Contains(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			href = target
			if u, err = url.Parse(target); err != nil {
				return ""
			}
		}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if strings.Contains(strings.ToLower(u.Host), "duckduckgo.com") {
		return ""
	}
	return href
}
