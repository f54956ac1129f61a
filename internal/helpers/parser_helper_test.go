package helpers

import "testing"

func TestParsePriceMinor(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"499", 49900, false},
		{"₹499", 49900, false},
		{"Rs. 1,999", 199900, false},
		{"₹ 12500", 1250000, false},
		{"0", 0, true},
		{"free", 0, true},
		{"", 0, true},
		{"₹", 0, true},
	}

	for _, tc := range cases {
		got, err := ParsePriceMinor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePriceMinor(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePriceMinor(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePriceMinor(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatPriceMinor(t *testing.T) {
	if got := FormatPriceMinor(49900, "INR"); got != "₹499" {
		t.Errorf("FormatPriceMinor INR = %q", got)
	}
	if got := FormatPriceMinor(49950, "USD"); got != "499.50 USD" {
		t.Errorf("FormatPriceMinor USD = %q", got)
	}
}
