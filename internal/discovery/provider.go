// Package discovery finds competitor storefronts for a brand: a search
// provider surfaces candidate domains and a platform probe keeps only the
// ones that actually run a storefront with a JSON product feed.
package discovery

import "context"

// Provider abstracts a search engine that can return result links for a
// query. Implementations may scrape an HTML results page or call an API.
type Provider interface {
	Search(ctx context.Context, query string) ([]string, error)
}
