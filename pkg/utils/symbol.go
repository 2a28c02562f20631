package utils

import (
	"path/filepath"
	"strings"
)

// NormalizeSymbol normalizes a user-input asset symbol to canonical form.
// It uppercases, trims whitespace, and strips a leading "$".
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	return strings.TrimPrefix(symbol, "$")
}

// SymbolFromPath derives an asset symbol from a price file name.
// e.g., "data/aapl.csv" → "AAPL", "/tmp/$msft.prices.json" → "MSFT.PRICES"
func SymbolFromPath(path string) string {
	base := filepath.Base(path)
	return NormalizeSymbol(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ParseAssignment splits "SYMBOL=value" into its normalized symbol and raw value.
// ok is false when there is no "=" or the symbol is empty.
func ParseAssignment(s string) (symbol, value string, ok bool) {
	k, v, found := strings.Cut(s, "=")
	if !found {
		return "", "", false
	}
	symbol = NormalizeSymbol(k)
	if symbol == "" {
		return "", "", false
	}
	return symbol, strings.TrimSpace(v), true
}
