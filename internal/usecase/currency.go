package usecase

import "strings"

var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
	"GBp": "p",
	"JPY": "¥",
	"CNY": "¥",
	"KRW": "₩",
	"HKD": "HK$",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF ",
}

// CurrencySymbol maps an ISO code to its display prefix. Unknown codes are
// rendered as "CODE "; an empty code is treated as USD.
func CurrencySymbol(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "$"
	}
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	if s, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return s
	}
	return code + " "
}
