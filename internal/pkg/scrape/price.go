package scrape

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParsePrice extracts a decimal price from raw page text. Everything
// except digits and dots is dropped, so "$1,599.99 –" parses as
// 1599.99 and Amazon's whole-price fragments like "139." parse as 139.
// Text that still is not a single number (for example two prices run
// together) is rejected.
func ParsePrice(text string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return decimal.Decimal{}, errors.Wrapf(ErrPriceUnparsable, "text %q", text)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrPriceUnparsable, "text %q", text)
	}
	return d, nil
}
