package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with English thousands separators, e.g. 12,345.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatNumberString inserts thousands separators into a decimal digit
// string. It is used for values beyond the range of machine integers.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(sign) + n + n/3)
	b.WriteString(sign)
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// TruncateDigits shortens a decimal string longer than limit to its first and
// last edge digits around an ellipsis, keeping any sign. Shorter strings are
// returned unchanged.
func TruncateDigits(s string, limit, edge int) string {
	sign := ""
	digits := s
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= limit || 2*edge >= len(digits) {
		return s
	}
	return fmt.Sprintf("%s%s...%s", sign, digits[:edge], digits[len(digits)-edge:])
}
