// Package core provides the record model and the numeric coercion and
// formatting rules shared by loaders and the filter engine.
//
// Coercion mirrors the spreadsheet service the data comes from: integers and
// floats are read from the longest valid leading prefix of the trimmed text
// and anything unparseable becomes 0.
package core

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the display locale for counts and amounts.
var Locale = language.BrazilianPortuguese

// ParseAno parses a year the way the source service does.
//
// Examples:
//
//	ParseAno("2020")    -> 2020
//	ParseAno(" 2020.0") -> 2020
//	ParseAno("12abc")   -> 12
//	ParseAno("0x7E4")   -> 2020
//	ParseAno("abc")     -> 0
func ParseAno(s string) int {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "0x") || strings.HasPrefix(s[i:], "0X") {
		return parseHexPrefix(s[:i], s[i+2:])
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return 0
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0
	}
	return n
}

func parseHexPrefix(sign, s string) int {
	i := 0
	for i < len(s) && isHexDigit(s[i]) {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.ParseInt(sign+s[:i], 16, 0)
	if err != nil {
		return 0
	}
	return int(n)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ParseTotal parses an amount the way the source service does: the longest
// decimal prefix, with optional fraction and exponent, is kept.
//
// Examples:
//
//	ParseTotal("1234.56") -> 1234.56
//	ParseTotal("1.5e3x")  -> 1500
//	ParseTotal(".5")      -> 0.5
//	ParseTotal("R$ 10")   -> 0
func ParseTotal(s string) float64 {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - intStart
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracDigits = j - (i + 1)
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0
	}
	return f
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// FormatCount renders n with pt-BR thousands grouping, e.g. 1000 -> "1.000".
func FormatCount(n int) string {
	return message.NewPrinter(Locale).Sprintf("%d", n)
}

// FormatBRL renders an amount as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	return message.NewPrinter(Locale).Sprintf("R$ %.2f", v)
}
