package wallapop

import (
	"net/url"
	"strings"
)

// TimeFilterToday restricts results to listings published or updated today.
const TimeFilterToday = "today"

// SearchParams contains search query parameters. Empty fields are omitted.
type SearchParams struct {
	Keywords    string // Space separated search terms
	CategoryIDs string // Comma separated category ids
	MinPrice    string
	MaxPrice    string
	Distance    string // Distance in meters from the caller
	OrderBy     string // e.g. "newest", "price_low_to_high"
}

// BuildQuery turns search parameters into the query string of the search
// endpoint. Values are passed through without validation.
func BuildQuery(p SearchParams) url.Values {
	q := url.Values{}
	q.Set("source", "search_box")
	// Spaces are encoded as "+" by url.Values.Encode.
	q.Set("keywords", strings.Join(strings.Fields(p.Keywords), " "))
	q.Set("time_filter", TimeFilterToday)

	if p.CategoryIDs != "" {
		q.Set("category_ids", p.CategoryIDs)
	}
	if p.MinPrice != "" {
		q.Set("min_sale_price", p.MinPrice)
	}
	if p.MaxPrice != "" {
		q.Set("max_sale_price", p.MaxPrice)
	}
	if p.Distance != "" {
		q.Set("dist", p.Distance)
	}
	if p.OrderBy != "" {
		q.Set("order_by", p.OrderBy)
	}
	return q
}

// ItemURL returns the public web URL of a listing.
func ItemURL(webBaseURL, slug string) string {
	return strings.TrimSuffix(webBaseURL, "/") + "/item/" + slug
}
