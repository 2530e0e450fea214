package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceRange holds optional price bounds as normalized decimal text.
// An empty bound means no limit on that side.
type PriceRange struct {
	Min string
	Max string
}

// IsZero reports whether neither bound is set.
func (r PriceRange) IsZero() bool {
	return r.Min == "" && r.Max == ""
}

// String renders the range for confirmations, e.g. "100€ - ∞€".
func (r PriceRange) String() string {
	if r.IsZero() {
		return MsgSubscriptionNoPrice
	}
	lo, hi := r.Min, r.Max
	if lo == "" {
		lo = "0"
	}
	if hi == "" {
		hi = "∞"
	}
	return fmt.Sprintf(MsgPriceRangeDisplay, lo, hi)
}

var (
	// currencyRegex matches currency symbols and words, and whitespace used
	// as a thousands separator.
	currencyRegex = regexp.MustCompile(`(?i)€|\$|£|eur(os?)?|\s`)

	// amountRegex is a plain non-negative amount after normalization.
	amountRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// parsePriceRange parses a user supplied price range:
//   - "min-max", "min-" or "-max": either side may be empty
//   - a single amount: the maximum price
//
// At least one bound is required, and min must be below max.
func parsePriceRange(text string) (PriceRange, error) {
	text = currencyRegex.ReplaceAllString(strings.TrimSpace(text), "")

	var r PriceRange
	if minPart, maxPart, found := strings.Cut(text, "-"); found {
		var err error
		if r.Min, err = parseAmount(minPart); err != nil {
			return PriceRange{}, fmt.Errorf(MsgPriceMinInvalid, escapeMarkdown(minPart))
		}
		if r.Max, err = parseAmount(maxPart); err != nil {
			return PriceRange{}, fmt.Errorf(MsgPriceMaxInvalid, escapeMarkdown(maxPart))
		}
	} else if text != "" {
		var err error
		if r.Max, err = parseAmount(text); err != nil {
			return PriceRange{}, fmt.Errorf(MsgPriceInvalid, escapeMarkdown(text))
		}
	}

	if r.IsZero() {
		return PriceRange{}, errors.New(MsgPriceMissing)
	}

	if r.Min != "" && r.Max != "" {
		lo := decimal.RequireFromString(r.Min)
		hi := decimal.RequireFromString(r.Max)
		if !lo.LessThan(hi) {
			return PriceRange{}, errors.New(MsgPriceMinNotBelow)
		}
	}

	return r, nil
}

// parseAmount normalizes one side of a range. Empty input yields an empty
// bound. When both '.' and ',' appear the last one is the decimal separator;
// a lone ',' is a decimal comma.
func parseAmount(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	if !amountRegex.MatchString(s) {
		return "", fmt.Errorf("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
