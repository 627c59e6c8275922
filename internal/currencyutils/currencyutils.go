// Package currencyutils parses and formats the locale-specific amounts found
// in Italian financial documents.
package currencyutils

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	negativeParens  = regexp.MustCompile(`^\(.*\)$`)
	currencySymbols = regexp.MustCompile(`[€$£¥\s]`)
	leadingNumber   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)
)

// ParseNumber converts a European formatted amount into a float. Dots are
// thousands separators and the first comma is the decimal point. A value in
// parentheses or with a leading minus is negative. Trailing garbage after
// the numeric prefix is ignored; anything unparseable yields 0.
//
//	ParseNumber("1.234,56") == 1234.56
//	ParseNumber("(500)")    == -500
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	s = currencySymbols.ReplaceAllString(s, "")
	negative := negativeParens.MatchString(s) || strings.HasPrefix(s, "-")

	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	prefix := leadingNumber.FindString(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if negative {
		return -math.Abs(v)
	}
	return v
}

// ParseDecimal is ParseNumber returning a decimal for arithmetic on totals.
func ParseDecimal(raw string) decimal.Decimal {
	return decimal.NewFromFloat(ParseNumber(raw))
}

// Round2 rounds v half away from zero to cents.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Sum adds values in decimal arithmetic and rounds to cents, so that item
// totals such as 0.1+0.2 come out as 0.3.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// Sub returns a-b in decimal arithmetic rounded to cents.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// FormatAmount renders v as an Italian euro amount, e.g. "€ 1.234,56".
func FormatAmount(v float64) string {
	return "€ " + FormatNumber(v, 2)
}

// FormatNumber renders v with the given number of decimals using a dot for
// thousands and a comma for decimals.
func FormatNumber(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	negative := d.IsNegative()
	s := d.Abs().StringFixed(places)

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatPercent renders a ratio as a percentage with one decimal, e.g.
// 0.1234 becomes "12,3%".
func FormatPercent(ratio float64) string {
	return FormatNumber(ratio*100, 1) + "%"
}
