// Package profile defines the brand-profile data model. Values are built
// once per crawl and never mutated afterwards; absent fields mean "could not
// be determined", not failure.
package profile

// Product is a single storefront product. Title is the only required field.
type Product struct {
	Title string   `json:"title"`
	URL   string   `json:"url,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Image string   `json:"image,omitempty"`
}

// PolicyType enumerates the recognized policy pages.
type PolicyType string

const (
	PolicyPrivacy  PolicyType = "privacy"
	PolicyRefund   PolicyType = "refund"
	PolicyShipping PolicyType = "shipping"
	PolicyTerms    PolicyType = "terms"
)

// Policy is one store policy page. At most one Policy per type appears in a
// profile.
type Policy struct {
	Type        PolicyType `json:"type"`
	URL         string     `json:"url,omitempty"`
	TextExcerpt string     `json:"text_excerpt,omitempty"`
}

// FAQItem is one question/answer pair. Both sides are always non-empty;
// candidates with an empty side are discarded during extraction.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	URL      string `json:"url,omitempty"`
}

// Contact aggregates the contact channels found on a storefront.
type Contact struct {
	Emails      []string `json:"emails,omitempty"`
	Phones      []string `json:"phones,omitempty"`
	ContactPage string   `json:"contact_page,omitempty"`
}

// BrandContext is the aggregate profile for one storefront.
type BrandContext struct {
	StoreURL       string            `json:"store_url"`
	BrandName      string            `json:"brand_name,omitempty"`
	HeroProducts   []Product         `json:"hero_products"`
	Catalog        []Product         `json:"catalog"`
	Policies       []Policy          `json:"policies"`
	FAQs           []FAQItem         `json:"faqs"`
	Social         map[string]string `json:"social"`
	Contact        Contact           `json:"contact"`
	AboutText      string            `json:"about_text,omitempty"`
	ImportantLinks map[string]string `json:"important_links"`
	FetchedAt      string            `json:"fetched_at"`
}

// Recognizable reports whether the profile looks like a real storefront: it
// has at least one catalog or hero product. The boundary layer rejects
// profiles failing this check.
func (c *BrandContext) Recognizable() bool {
	return len(c.Catalog) > 0 || len(c.HeroProducts) > 0
}

// CompetitorResult pairs a brand's own profile with profiles of discovered
// competitors, in discovery order.
type CompetitorResult struct {
	Brand       BrandContext   `json:"brand"`
	Competitors []BrandContext `json:"competitors"`
}
