package wallapop

import (
	"context"
	"encoding/json"
	"fmt"
)

// Reviews fetches the reviews left for a user.
func (c *Client) Reviews(ctx context.Context, userID string) ([]Review, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", randomUserAgent()).
		SetPathParam("userId", userID).
		Get(reviewsPath)
	if err != nil {
		return nil, fmt.Errorf("reviews request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("reviews failed: %d - %s", res.StatusCode(), res.String())
	}

	var reviews []Review
	if err := json.Unmarshal(res.Body(), &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// Seller looks up the reputation of a listing's seller.
func (c *Client) Seller(ctx context.Context, listing Listing) (*SellerInfo, error) {
	reviews, err := c.Reviews(ctx, listing.UserID)
	if err != nil {
		return nil, err
	}
	return &SellerInfo{
		ReviewCount:   len(reviews),
		AverageRating: AverageRating(reviews),
		TopProfile:    listing.TopProfile.Flag,
	}, nil
}

// AverageRating returns the mean scoring of the reviews, or 0 when there are none.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var total float64
	for _, r := range reviews {
		total += r.Review.Scoring
	}
	return total / float64(len(reviews))
}
