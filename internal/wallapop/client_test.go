package wallapop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponseJSON = `{
	"data": {"section": {"payload": {"items": [
		{"id": "abc1", "title": "iPhone 15 Pro", "price": {"amount": 850.5, "currency": "EUR"},
		 "web_slug": "iphone-15-pro-abc1", "user_id": "u1", "is_top_profile": {"flag": true}},
		{"id": "abc2", "title": "Funda iPhone", "price": {"amount": 10, "currency": "EUR"},
		 "web_slug": "funda-abc2", "user_id": "u2"}
	]}}}
}`

func newTestClient(url string) *Client {
	return NewClient(Options{BaseURL: url})
}

func TestSearch_DecodesListings(t *testing.T) {
	var gotQuery, gotUA, gotOrigin string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/search", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotOrigin = r.Header.Get("Origin")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchResponseJSON))
	}))
	defer ts.Close()

	listings, err := newTestClient(ts.URL).Search(context.Background(), SearchParams{Keywords: "iphone 15", MaxPrice: "900"})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "abc1", listings[0].ID)
	assert.Equal(t, "iPhone 15 Pro", listings[0].Title)
	assert.True(t, decimal.RequireFromString("850.5").Equal(listings[0].Price.Amount))
	assert.Equal(t, "iphone-15-pro-abc1", listings[0].WebSlug)
	assert.Equal(t, "u1", listings[0].UserID)
	assert.True(t, listings[0].TopProfile.Flag)
	assert.False(t, listings[1].TopProfile.Flag)

	assert.Contains(t, gotQuery, "keywords=iphone+15")
	assert.Contains(t, gotQuery, "max_sale_price=900")
	assert.Contains(t, gotQuery, "time_filter=today")
	assert.Contains(t, userAgents, gotUA)
	assert.Equal(t, "https://es.wallapop.com", gotOrigin)
}

func TestSearch_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("blocked"))
	}))
	defer ts.Close()

	listings, err := newTestClient(ts.URL).Search(context.Background(), SearchParams{Keywords: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Empty(t, listings)
}

func TestSearch_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newTestClient(url).Search(context.Background(), SearchParams{Keywords: "x"})
	assert.Error(t, err)
}

func TestSearch_EmptyPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer ts.Close()

	listings, err := newTestClient(ts.URL).Search(context.Background(), SearchParams{Keywords: "x"})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestSeller_AveragesReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/users/u1/reviews", r.URL.Path)
		w.Write([]byte(`[{"review": {"scoring": 100}}, {"review": {"scoring": 80}}, {"review": {"scoring": 90}}]`))
	}))
	defer ts.Close()

	info, err := newTestClient(ts.URL).Seller(context.Background(), Listing{UserID: "u1", TopProfile: TopProfile{Flag: true}})
	require.NoError(t, err)
	assert.Equal(t, 3, info.ReviewCount)
	assert.InDelta(t, 90.0, info.AverageRating, 0.001)
	assert.True(t, info.TopProfile)
}

func TestSeller_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	info, err := newTestClient(ts.URL).Seller(context.Background(), Listing{UserID: "u1"})
	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestAverageRating_NoReviews(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
}
