package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Amounts follow the US convention: "," groups thousands, "." starts the
// fraction. "$", "US$" and "USD" are the only recognised currency markers.
// A leading "-" or surrounding parentheses make the amount negative.
const amountCore = `(\(\s*)?(-\s*)?(?:(US\$|USD|\$)\s*)?(-\s*)?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?|\.\d+)(\s*\))?`

var (
	amountPattern     = regexp.MustCompile(`(?i)` + amountCore)
	wholeAmountRegexp = regexp.MustCompile(`(?i)^` + amountCore + `$`)
)

// maxBareDigits is the longest run of plain digits (no currency, no comma, no
// fraction) still treated as money. Longer runs are account or reference numbers.
const maxBareDigits = 9

// AmountMatch is one currency-like token found in free text.
type AmountMatch struct {
	Value  decimal.Decimal
	Raw    string
	Line   string
	LineNo int
}

// ParseAmount coerces a whole cell such as "$12,500.00", "(1,234.50)" or
// "9999.99" into a decimal. It reports false when the cell is not a number.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	m := wholeAmountRegexp.FindStringSubmatch(s)
	if m == nil || (m[1] == "") != (m[6] == "") {
		return decimal.Decimal{}, false
	}
	return valueFromGroups(m)
}

// ScanAmounts finds every currency-like token in text, line by line.
// LineNo is 1-based and counts every line, blank ones included.
func ScanAmounts(text string) []AmountMatch {
	var out []AmountMatch
	for i, line := range strings.Split(normalizeNewlines(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, m := range ScanLine(line) {
			m.LineNo = i + 1
			out = append(out, m)
		}
	}
	return out
}

// ScanLine finds currency-like tokens in a single line of text.
func ScanLine(line string) []AmountMatch {
	var out []AmountMatch
	context := strings.TrimSpace(line)
	for _, loc := range amountPattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := loc[0], loc[1]
		if !standsAlone(line, start, end) {
			continue
		}
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = line[loc[2*g]:loc[2*g+1]]
			}
		}
		if isIdentifier(groups) {
			continue
		}
		value, ok := valueFromGroups(groups)
		if !ok {
			continue
		}
		out = append(out, AmountMatch{
			Value: value,
			Raw:   line[start:end],
			Line:  context,
		})
	}
	return out
}

func valueFromGroups(m []string) (decimal.Decimal, bool) {
	number := strings.ReplaceAll(m[5], ",", "")
	value, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Decimal{}, false
	}
	negative := m[2] != "" || m[4] != "" || (m[1] != "" && m[6] != "")
	if negative {
		value = value.Neg()
	}
	return value, true
}

// isIdentifier rejects long bare digit runs such as account numbers.
func isIdentifier(m []string) bool {
	if m[3] != "" {
		return false
	}
	number := m[5]
	if strings.ContainsAny(number, ",.") {
		return false
	}
	return len(number) > maxBareDigits
}

// standsAlone rejects tokens glued to surrounding words, dates, times,
// percentages and numbers written with a non-US separator.
func standsAlone(line string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(line[:start])
		if isWordRune(prev) || strings.ContainsRune("/.,:-", prev) {
			if !(prev == ':' && !precededByDigit(line, start-1)) {
				return false
			}
		}
	}
	if end < len(line) {
		next, size := utf8.DecodeRuneInString(line[end:])
		if isWordRune(next) || next == '/' || next == '%' {
			return false
		}
		if strings.ContainsRune(".,:-", next) && followedByDigit(line, end+size) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func precededByDigit(s string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsDigit(r)
}

func followedByDigit(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsDigit(r)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\f", "\n")
}
