package dataset

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
)

// nullTokens are cell values read as missing.
var nullTokens = map[string]bool{
	"":      true,
	"na":    true,
	"n/a":   true,
	"nan":   true,
	"null":  true,
	"none":  true,
	"<nil>": true,
	"-":     true,
}

// currencyPrefixes are stripped before numeric parsing, longest first.
var currencyPrefixes = []string{"inr", "rs.", "rs", "₹", "$", "€", "£"}

// parseNumber coerces a cell to a float. Thousands separators and a leading
// currency marker are tolerated; anything else unparseable is null.
func parseNumber(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if nullTokens[strings.ToLower(s)] {
		return sql.NullFloat64{}
	}

	lower := strings.ToLower(s)
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// parseInt coerces an identifier cell. Integral floats such as "102.0" are accepted.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	v := parseNumber(s)
	if !v.Valid || v.Float64 != math.Trunc(v.Float64) || math.Abs(v.Float64) > 1<<53 {
		return 0, false
	}
	return int64(v.Float64), true
}

func parseText(s string) string {
	s = strings.TrimSpace(s)
	if nullTokens[strings.ToLower(s)] {
		return ""
	}
	return s
}
