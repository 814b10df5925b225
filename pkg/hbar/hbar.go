package hbar

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TinybarsPerHbar 1 HBAR = 100,000,000 tinybar
const TinybarsPerHbar = 100_000_000

// DisplayDecimals 展示单位的小数位数
const DisplayDecimals = 8

var accountIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

var tinybarsPerHbarDec = decimal.NewFromInt(TinybarsPerHbar)

// IsValidAccountID reports whether s is a well-formed ledger account id
// (three dot-separated non-negative integers, e.g. "0.0.123456").
func IsValidAccountID(s string) bool {
	return accountIDPattern.MatchString(s)
}

// TinybarsToHbar converts an integer tinybar amount to its display-unit value.
func TinybarsToHbar(tinybars int64) decimal.Decimal {
	return decimal.NewFromInt(tinybars).Div(tinybarsPerHbarDec)
}

// HbarToTinybars converts a display-unit amount down to tinybars.
// 始终向下取整: 绝不授权比用户输入更多的金额。
func HbarToTinybars(amount decimal.Decimal) int64 {
	return amount.Mul(tinybarsPerHbarDec).Floor().IntPart()
}

// ParseAmount parses a user-entered decimal string.
// Returns an error for anything that is not a finite decimal number.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// FormatHbar renders an amount with en-US thousand grouping and a fixed
// 8 fractional digits: 1000.5 -> "1,000.50000000".
func FormatHbar(amount decimal.Decimal) string {
	s := amount.StringFixed(DisplayDecimals)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	// 千分位分组
	var b strings.Builder
	pre := len(intPart) % 3
	if pre > 0 {
		b.WriteString(intPart[:pre])
	}
	for i := pre; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
