package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a money amount decoded leniently from the catalog API.
// Numbers, numeric strings ("100.00"), null and garbage are all accepted;
// anything that is not a number becomes zero.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

func PriceFromInt(v int64) Price {
	return Price{Decimal: decimal.NewFromInt(v)}
}

func PriceFromFloat(v float64) Price {
	return Price{Decimal: decimal.NewFromFloat(v)}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	p.Decimal = parseAmount(string(data))
	return nil
}

func parseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return decimal.Zero
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmount converts user input such as a price bound into a decimal.
// The second return value is false when the input is empty or not a number.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
