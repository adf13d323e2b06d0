package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
)

// catalogPageSize is the item count requested per feed page.
const catalogPageSize = 250

type productsFeed struct {
	Products []feedProduct `json:"products"`
}

type feedProduct struct {
	Title    string        `json:"title"`
	Handle   string        `json:"handle"`
	Image    *feedImage    `json:"image"`
	Variants []feedVariant `json:"variants"`
}

type feedImage struct {
	Src string `json:"src"`
}

type feedVariant struct {
	// Raw because feeds serve prices as strings but occasionally as numbers.
	Price json.RawMessage `json:"price"`
}

// Catalog pages through the storefront's JSON product feed until a page is
// not retrievable as JSON or comes back empty. Every accumulated product is
// retained when pagination ends, however it ends.
func Catalog(ctx context.Context, f PageFetcher, base string) []profile.Product {
	var products []profile.Product

	for page := 1; ; page++ {
		feedURL := textutil.Absolutize(base, fmt.Sprintf("/products.json?limit=%d&page=%d", catalogPageSize, page))

		var feed productsFeed
		if !f.JSON(ctx, feedURL, &feed) {
			break
		}
		if len(feed.Products) == 0 {
			break
		}

		for _, it := range feed.Products {
			p := profile.Product{Title: strings.TrimSpace(it.Title)}

			if it.Handle != "" {
				p.URL = textutil.Absolutize(base, "/products/"+it.Handle)
			}
			if it.Image != nil && it.Image.Src != "" {
				p.Image = textutil.Absolutize(base, it.Image.Src)
			}
			if len(it.Variants) > 0 {
				p.Price = parsePrice(it.Variants[0].Price)
			}

			products = append(products, p)
		}
	}

	return products
}

// parsePrice reads a variant price as a decimal. Malformed prices yield nil
// rather than failing the item; the feed does not distinguish "no price"
// from "unparsable price".
func parsePrice(raw json.RawMessage) *float64 {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
