package extract

import (
	"context"

	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
)

// policyExcerptLen bounds the stored policy text.
const policyExcerptLen = 800

var policyPaths = []struct {
	ptype profile.PolicyType
	path  string
}{
	{profile.PolicyPrivacy, "/policies/privacy-policy"},
	{profile.PolicyRefund, "/policies/refund-policy"},
	{profile.PolicyShipping, "/policies/shipping-policy"},
	{profile.PolicyTerms, "/policies/terms-of-service"},
}

// Policies fetches the four conventional policy pages and keeps one entry per
// retrievable page, in the fixed privacy/refund/shipping/terms order. Missing
// pages are simply omitted.
func Policies(ctx context.Context, f PageFetcher, base string) []profile.Policy {
	out := []profile.Policy{}
	for _, pp := range policyPaths {
		doc := f.Page(ctx, base, pp.path)
		if doc == nil {
			continue
		}
		out = append(out, profile.Policy{
			Type:        pp.ptype,
			URL:         textutil.Absolutize(base, pp.path),
			TextExcerpt: textutil.Excerpt(pageText(doc), policyExcerptLen),
		})
	}
	return out
}
