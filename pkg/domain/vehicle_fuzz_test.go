//go:build go1.18

package domain

import (
	"testing"
)

// FuzzParseVehicleID verifies the parser never panics on arbitrary input and
// that every accepted identifier is a fixed point: parsing its canonical or
// display form yields the same value.
func FuzzParseVehicleID(f *testing.F) {
	f.Add("TN01AB1234")
	f.Add("tn 01 ab 1234")
	f.Add("")
	f.Add("1N01AB1234")
	f.Add("'; DROP TABLE transactions;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("TN01AB1234\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseVehicleID(input)
		if err != nil {
			return
		}

		if len(id.String()) != 10 {
			t.Errorf("accepted identifier with length %d: %q", len(id.String()), id)
		}

		roundTrip, err := ParseVehicleID(id.String())
		if err != nil {
			t.Errorf("canonical form failed round-trip: %v", err)
		}
		if roundTrip != id {
			t.Error("round-trip changed identifier value")
		}

		fromDisplay, err := ParseVehicleID(id.Display())
		if err != nil {
			t.Errorf("display form failed to parse: %v", err)
		}
		if fromDisplay != id {
			t.Error("display form parsed to a different identifier")
		}
	})
}
