package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`[0-9][0-9.,]*`)

// currencySymbols maps symbols and prefixes found in price text to ISO codes.
// Longer entries are matched before shorter ones.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"US $", "USD"},
	{"US$", "USD"},
	{"S$", "SGD"},
	{"RM", "MYR"},
	{"AED", "AED"},
	{"USD", "USD"},
	{"EUR", "EUR"},
	{"GBP", "GBP"},
	{"JPY", "JPY"},
	{"PHP", "PHP"},
	{"IDR", "IDR"},
	{"THB", "THB"},
	{"VND", "VND"},
	{"SGD", "SGD"},
	{"MYR", "MYR"},
	{"INR", "INR"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₱", "PHP"},
	{"₹", "INR"},
	{"₫", "VND"},
	{"฿", "THB"},
	{"Rp", "IDR"},
}

// ParsePrice pulls the first amount and a currency code out of raw price
// text like "$1,299.99", "US $23.50" or "₱1.234,56". The currency defaults
// to USD when no known symbol is present.
func ParsePrice(raw string) (*PriceInfo, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	currency := "USD"
	for _, entry := range currencySymbols {
		if strings.Contains(raw, entry.symbol) {
			currency = entry.code
			break
		}
	}

	// price ranges ("12.99 - 15.99") collapse to the first amount
	cleaned := strings.Trim(amountPattern.FindString(raw), ".,")
	if cleaned == "" {
		return nil, false
	}

	value, err := strconv.ParseFloat(normalizeSeparators(cleaned), 64)
	if err != nil || value <= 0 {
		return nil, false
	}

	return &PriceInfo{Current: value, Currency: currency}, true
}

// normalizeSeparators converts locale-specific thousands/decimal separators
// to a plain decimal point
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// both present, the later one is the decimal separator
		if lastDot > lastComma {
			return strings.ReplaceAll(s, ",", "")
		}
		s = strings.ReplaceAll(s, ".", "")
		return strings.ReplaceAll(s, ",", ".")
	case lastComma >= 0:
		// a lone comma with exactly 1-2 trailing digits reads as decimal
		if len(s)-lastComma-1 <= 2 && strings.Count(s, ",") == 1 {
			return strings.ReplaceAll(s, ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		// dots used as thousands separators ("1.234.567")
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
		return s
	default:
		return s
	}
}
