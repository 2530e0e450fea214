package wallapop

import "github.com/shopspring/decimal"

// Listing is a single item from the search endpoint.
type Listing struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Price      Price      `json:"price"`
	WebSlug    string     `json:"web_slug"`
	UserID     string     `json:"user_id"`
	TopProfile TopProfile `json:"is_top_profile"`
}

// Price contains the listing price.
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// TopProfile flags featured sellers.
type TopProfile struct {
	Flag bool `json:"flag"`
}

type searchResponse struct {
	Data struct {
		Section struct {
			Payload struct {
				Items []Listing `json:"items"`
			} `json:"payload"`
		} `json:"section"`
	} `json:"data"`
}

// Review is one entry of a user's reviews list.
type Review struct {
	Review struct {
		Scoring float64 `json:"scoring"`
	} `json:"review"`
}

// SellerInfo summarizes a seller's reputation.
type SellerInfo struct {
	ReviewCount   int
	AverageRating float64 // 0-100, only meaningful when ReviewCount > 0
	TopProfile    bool
}
