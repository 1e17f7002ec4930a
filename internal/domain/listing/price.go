package listing

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is an amount in paise. The column is numeric(10,2), so the largest
// magnitude is 99999999.99 rupees.
type Price int64

const MaxPrice Price = 99_999_999_99

// ParsePrice reads a decimal rupee amount such as "2500", "-12.5" or
// "1234.50". More than two fractional digits or anything non-numeric is
// rejected rather than rounded.
func ParsePrice(raw string) (Price, error) {
	text := strings.TrimSpace(raw)
	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(strings.TrimPrefix(text, "-"), "+")

	whole, frac, hasDot := strings.Cut(text, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if len(frac) > 2 || !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	var rupees, paise int64
	if whole != "" {
		var err error
		if rupees, err = strconv.ParseInt(whole, 10, 64); err != nil || rupees > int64(MaxPrice)/100 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
		}
	}
	if frac != "" {
		paise, _ = strconv.ParseInt(frac, 10, 64)
		if len(frac) == 1 {
			paise *= 10
		}
	}

	price := Price(rupees*100 + paise)
	if negative {
		price = -price
	}
	return price, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p Price) Abs() Price {
	if p < 0 {
		return -p
	}
	return p
}

// Rupees splits p into its whole rupees and remaining paise, both carrying p's sign.
func (p Price) Rupees() (int64, int64) {
	return int64(p) / 100, int64(p) % 100
}

// String formats p as the numeric column does, always with two decimals.
func (p Price) String() string {
	sign := ""
	if p < 0 {
		sign = "-"
	}
	rupees, paise := p.Abs().Rupees()
	return fmt.Sprintf("%s%d.%02d", sign, rupees, paise)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePrice(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan accepts the textual numeric the postgres driver returns. Integers and
// floats are taken as rupees.
func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = 0
		return nil
	case []byte:
		return p.scanText(string(v))
	case string:
		return p.scanText(v)
	case int64:
		*p = Price(v * 100)
		return nil
	case float64:
		*p = Price(math.Round(v * 100))
		return nil
	default:
		return fmt.Errorf("listing: cannot scan %T into Price", src)
	}
}

func (p *Price) scanText(text string) error {
	parsed, err := ParsePrice(text)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
