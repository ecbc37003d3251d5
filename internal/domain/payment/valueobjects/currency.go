package valueobjects

import (
	"fmt"
	"strings"
)

type Currency string

const CurrencyINR Currency = "INR"

// ParseCurrency upper-cases code and checks it is a three letter ISO code.
// An empty code defaults to INR.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return CurrencyINR, nil
	}
	if len(code) != 3 {
		return "", fmt.Errorf("currency must be a 3-letter code, got %q", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("currency must be a 3-letter code, got %q", code)
		}
	}
	return Currency(code), nil
}

func (c Currency) String() string {
	return string(c)
}
