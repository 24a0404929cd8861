// Package format turns measure values into display strings.
//
// [Parse] understands the subset of spreadsheet number formats that query
// hosts attach to measures: a literal prefix and suffix (quoted or bare),
// a digit pattern with optional thousands grouping ("#,##0") and fixed
// decimals ("0.00"), and a trailing percent sign which scales the value by
// 100. Anything it does not recognize falls back to the shortest decimal
// rendering.
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders a value for display.
type Formatter func(float64) string

// Default renders v in its shortest decimal form.
func Default(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var printer = message.NewPrinter(language.English)

// Pattern is a parsed number format.
type Pattern struct {
	Prefix   string
	Suffix   string
	Decimals int
	Grouping bool
	Percent  bool
}

// Parse compiles a number format. An empty or unrecognized format yields
// Default.
func Parse(layout string) Formatter {
	p, ok := ParsePattern(layout)
	if !ok {
		return Default
	}
	return p.Format
}

// ParsePattern splits a format string into its parts.
func ParsePattern(layout string) (Pattern, bool) {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		return Pattern{}, false
	}
	start := digitStart(layout)
	if start < 0 {
		return Pattern{}, false
	}
	end := start
	for end < len(layout) && strings.IndexByte("#0,.", layout[end]) >= 0 {
		end++
	}

	p := Pattern{
		Prefix: literal(layout[:start]),
		Suffix: literal(layout[end:]),
	}
	digits := layout[start:end]
	p.Grouping = strings.Contains(digits, ",")
	if dot := strings.IndexByte(digits, '.'); dot >= 0 {
		p.Decimals = strings.Count(digits[dot+1:], "0") + strings.Count(digits[dot+1:], "#")
	}
	if strings.Contains(p.Suffix, "%") {
		p.Percent = true
	}
	return p, true
}

// digitStart finds the first digit placeholder outside quotes and brackets.
func digitStart(layout string) int {
	quoted, bracketed := false, false
	for i := 0; i < len(layout); i++ {
		switch c := layout[i]; {
		case quoted:
			quoted = c != '"'
		case bracketed:
			bracketed = c != ']'
		case c == '"':
			quoted = true
		case c == '[':
			bracketed = true
		case c == '#' || c == '0':
			return i
		}
	}
	return -1
}

// literal strips format quoting and bracketed locale tags like [$€-407].
func literal(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			continue
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				continue
			}
			tag := s[i+1 : i+end]
			if strings.HasPrefix(tag, "$") {
				sym, _, _ := strings.Cut(tag[1:], "-")
				b.WriteString(sym)
			}
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Format renders v according to the pattern.
func (p Pattern) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Default(v)
	}
	if p.Percent {
		v *= 100
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	var digits string
	if p.Grouping {
		digits = printer.Sprint(number.Decimal(v, number.Scale(p.Decimals)))
	} else {
		digits = strconv.FormatFloat(v, 'f', p.Decimals, 64)
	}
	if sign != "" && strings.Trim(digits, "0.,") == "" {
		sign = ""
	}
	return sign + p.Prefix + digits + p.Suffix
}

// Percentage renders v as a share of total with three significant digits,
// e.g. "42.9%". It reports false when total is not positive.
func Percentage(v, total float64) (string, bool) {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) || math.IsNaN(v) {
		return "", false
	}
	return ToPrecision(100*v/total, 3) + "%", true
}

// ToPrecision renders v with prec significant digits, switching to
// exponent notation for very large or very small magnitudes.
func ToPrecision(v float64, prec int) string {
	if prec < 1 {
		prec = 1
	}
	if v == 0 {
		if prec == 1 {
			return "0"
		}
		return "0." + strings.Repeat("0", prec-1)
	}
	sci := strconv.FormatFloat(v, 'e', prec-1, 64)
	mant, expStr, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expStr)
	if exp < -6 || exp >= prec {
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		return mant + "e" + sign + strconv.Itoa(exp)
	}
	return strconv.FormatFloat(v, 'f', prec-1-exp, 64)
}
