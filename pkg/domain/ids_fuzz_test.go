//go:build go1.18

package domain

import (
	"strings"
	"testing"
)

// FuzzParseGTIN tests that parsing never panics on arbitrary input
// and always returns either a trimmed key or an error.
func FuzzParseGTIN(f *testing.F) {
	f.Add("")
	f.Add("07433200912010")
	f.Add("  07433200912010  ")
	f.Add("'; DROP TABLE links;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		gtin, err := ParseGTIN(input)

		if err != nil {
			if strings.TrimSpace(input) != "" {
				t.Errorf("non-blank input rejected: %q", input)
			}
			return
		}

		if gtin.String() != strings.TrimSpace(gtin.String()) {
			t.Errorf("key not trimmed: %q", gtin)
		}

		// Parsing is idempotent.
		again, err := ParseGTIN(gtin.String())
		if err != nil || again != gtin {
			t.Errorf("round-trip changed key: %q -> %q (%v)", gtin, again, err)
		}
	})
}
