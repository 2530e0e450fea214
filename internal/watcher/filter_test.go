package watcher

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
	"github.com/stretchr/testify/assert"
)

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		title    string
		keywords []string
		want     bool
	}{
		{"Apple iPhone 12 Pro 128GB", []string{"iphone", "12"}, true},
		{"Apple iPhone 12 Pro 128GB", []string{"IPHONE", "pro"}, true},
		{"Apple iPhone 12 Pro 128GB", []string{"iphone", "13"}, false},
		{"Bicicleta de montaña", []string{"bici"}, true}, // substring, not whole word
		{"Bicicleta de montaña", []string{"MONTAÑA"}, true},
		{"Anything", nil, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesKeywords(tt.title, tt.keywords), "%q %v", tt.title, tt.keywords)
	}
}

func TestFilterByKeywords(t *testing.T) {
	listings := []wallapop.Listing{
		{ID: "1", Title: "PS5 Digital Edition"},
		{ID: "2", Title: "Mando PS5"},
		{ID: "3", Title: "ps5 digital + 2 juegos"},
	}

	got := FilterByKeywords(listings, "digital  ps5")
	var ids []string
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func TestProperty_FilterKeepsOnlyTitlesWithAllKeywords(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	titleGen := gen.SliceOfN(5, gen.AlphaString())
	keywordGen := gen.SliceOfN(3, gen.AlphaString())

	properties.Property("every surviving title contains every keyword", prop.ForAll(
		func(titles []string, keywords []string) bool {
			var listings []wallapop.Listing
			for _, title := range titles {
				listings = append(listings, wallapop.Listing{Title: title})
			}

			for _, l := range FilterByKeywords(listings, strings.Join(keywords, " ")) {
				for _, kw := range strings.Fields(strings.Join(keywords, " ")) {
					if !strings.Contains(strings.ToLower(l.Title), strings.ToLower(kw)) {
						return false
					}
				}
			}
			return true
		},
		titleGen,
		keywordGen,
	))

	properties.Property("a title built from the keywords always survives", prop.ForAll(
		func(keywords []string, filler string) bool {
			title := filler + " " + strings.ToUpper(strings.Join(keywords, " x ")) + " " + filler
			listings := []wallapop.Listing{{Title: title}}
			return len(FilterByKeywords(listings, strings.Join(keywords, " "))) == 1
		},
		keywordGen,
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
