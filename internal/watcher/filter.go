package watcher

import (
	"strings"

	"github.com/raine/telegram-wallapop-bot/internal/wallapop"
)

// MatchesKeywords reports whether every keyword is a case-insensitive
// substring of title. An empty keyword set matches everything.
func MatchesKeywords(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// FilterByKeywords keeps the listings whose title contains all the
// space separated keywords.
func FilterByKeywords(listings []wallapop.Listing, keywords string) []wallapop.Listing {
	terms := strings.Fields(keywords)
	var out []wallapop.Listing
	for _, l := range listings {
		if MatchesKeywords(l.Title, terms) {
			out = append(out, l)
		}
	}
	return out
}
