package extract

import (
	"context"

	"github.com/FranksOps/shoplens/pkg/textutil"
)

// linkProbes lists the candidate (path, key) pairs for important links, in
// priority order per key.
var linkProbes = []struct {
	path string
	key  string
}{
	{"/pages/track", "order_tracking"},
	{"/pages/track-order", "order_tracking"},
	{"/pages/order-tracking", "order_tracking"},
	{"/pages/contact", "contact_us"},
	{"/blogs/news", "blogs"},
	{"/blogs", "blogs"},
}

// ImportantLinks resolves the well-known utility links. For each key the
// first retrievable candidate wins; once a key is resolved its later
// candidates are not fetched. Keys with no retrievable candidate are absent
// from the map.
func ImportantLinks(ctx context.Context, f PageFetcher, base string) map[string]string {
	out := map[string]string{}
	for _, probe := range linkProbes {
		if _, done := out[probe.key]; done {
			continue
		}
		if f.Page(ctx, base, probe.path) == nil {
			continue
		}
		out[probe.key] = textutil.Absolutize(base, probe.path)
	}
	return out
}
