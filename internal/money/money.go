// Package money parses and formats listing prices.
package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Parse reads a price, discarding every character that is not a digit or a
// decimal point. "1.250,00 €" style inputs must be normalized by the caller.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no digits in price %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return d, nil
}

// Formatter renders amounts with the grouping and decimal separator of a locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "es-ES".
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}, nil
}

// Format renders d with two decimals followed by the currency symbol.
func (f *Formatter) Format(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f %s", d.InexactFloat64(), f.symbol)
}
