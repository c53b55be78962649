// Package domain holds the typed identifiers shared across the service.
package domain

import (
	domainerrors "rcvault/pkg/domain-errors"
)

// VehicleID is a canonical Indian vehicle registration number: two letters
// (state), two digits (district), two letters (series), four digits (serial),
// e.g. TN01AB1234. It is only ever stored and compared in this canonical,
// separator-free form; Display output never participates in keys or equality.
type VehicleID string

const vehicleIDLen = 10

// ParseVehicleID canonicalizes raw input into a VehicleID. All characters
// outside [A-Za-z0-9] are stripped and the remainder uppercased before the
// shape check, so "tn 01-ab 1234" and "TN01AB1234" parse identically.
func ParseVehicleID(raw string) (VehicleID, error) {
	canonical := canonicalize(raw)
	if !validShape(canonical) {
		return "", domainerrors.Newf(domainerrors.CodeInvalidFormat,
			"invalid vehicle number %q: expected format like TN01AB1234", canonical)
	}
	return VehicleID(canonical), nil
}

func canonicalize(raw string) string {
	buf := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z':
			buf = append(buf, c-'a'+'A')
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			buf = append(buf, c)
		}
	}
	return string(buf)
}

func validShape(s string) bool {
	if len(s) != vehicleIDLen {
		return false
	}
	for i := 0; i < vehicleIDLen; i++ {
		c := s[i]
		// positions 0-1 and 4-5 are letters, the rest digits
		if i < 2 || (i >= 4 && i < 6) {
			if c < 'A' || c > 'Z' {
				return false
			}
		} else if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (v VehicleID) String() string { return string(v) }

// Display renders the identifier with single spaces between the four groups
// ("TN 01 AB 1234"). Display form is for presentation only.
func (v VehicleID) Display() string {
	s := string(v)
	if len(s) != vehicleIDLen {
		return s
	}
	return s[0:2] + " " + s[2:4] + " " + s[4:6] + " " + s[6:10]
}
