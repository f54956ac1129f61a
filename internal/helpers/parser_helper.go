package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParsePriceMinor converts a display price into integer minor units
// (paise). Accepts plain integers ("499"), currency-prefixed strings
// ("₹499", "Rs. 499") and grouped digits ("1,999"). The digits are read
// as whole rupees and multiplied by 100.
func ParsePriceMinor(price string) (int, error) {
	var digits strings.Builder
	for _, r := range price {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, fmt.Errorf("no digits in price %q", price)
	}

	rupees, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %v", price, err)
	}
	if rupees <= 0 {
		return 0, fmt.Errorf("price must be positive, got %q", price)
	}

	return rupees * 100, nil
}

// FormatPriceMinor renders minor units back into a display string.
func FormatPriceMinor(amount int, currency string) string {
	if currency == "INR" {
		return fmt.Sprintf("₹%d", amount/100)
	}
	return fmt.Sprintf("%d.%02d %s", amount/100, amount%100, currency)
}
