package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	layoutUS  = "01/02/2006"
	layoutISO = "2006-01-02"
)

// parseDate tries each accepted layout in order.
func parseDate(value string, layouts []string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected one of %s", value, strings.Join(layouts, ", "))
}

// parseAmount parses a monetary cell, tolerating dollar signs, thousands
// separators and stray whitespace. Non-numeric text is an error, not zero.
func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, value)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q, expected a number", value)
	}
	return d, nil
}
