// Package render turns cached RC records and the transaction log into
// durable output: a printable certificate document and a tabular CSV export.
// All output is deterministic for a given input.
package render

import (
	"fmt"
	"strings"
	"time"

	"rcvault/internal/rccache"
	"rcvault/pkg/domain"
)

// Placeholder rendered for any absent record field.
const Placeholder = "N/A"

const dateLayout = "02 Jan 2006"

// Layouts accepted for upstream date strings, most specific first.
var inputDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// documentField pairs a label with its value extractor, fixing the field
// order of the certificate.
type documentField struct {
	label string
	value func(*rccache.Record) string
}

var documentFields = []documentField{
	{"Registration Number", func(r *rccache.Record) string { return r.VehicleNumber }},
	{"Owner Name", func(r *rccache.Record) string { return r.OwnerName }},
	{"Vehicle Class", func(r *rccache.Record) string { return r.VehicleClass }},
	{"Fuel Type", func(r *rccache.Record) string { return r.FuelType }},
	{"Chassis Number", func(r *rccache.Record) string { return r.ChassisNumber }},
	{"Engine Number", func(r *rccache.Record) string { return r.EngineNumber }},
	{"Manufacturer", func(r *rccache.Record) string { return r.Manufacturer }},
	{"Model", func(r *rccache.Record) string { return r.Model }},
	{"Registration Date", func(r *rccache.Record) string { return formatDate(r.RegistrationDate) }},
	{"Insurance Valid Till", func(r *rccache.Record) string { return formatDate(r.InsuranceValidTill) }},
	{"RTO Office", func(r *rccache.Record) string { return r.RTOOffice }},
	{"Address of Owner", func(r *rccache.Record) string { return r.OwnerAddress }},
}

// Document renders the certificate as deterministic plain-text bytes.
func Document(record *rccache.Record) []byte {
	var b strings.Builder

	b.WriteString("GOVERNMENT OF TAMIL NADU\n")
	b.WriteString(strings.Repeat("_", 50) + "\n\n")
	b.WriteString("REGISTRATION CERTIFICATE (RC)\n")
	b.WriteString("Motor Vehicles Act, 1988\n\n")

	for i, field := range documentFields {
		value := field.value(record)
		if value == "" {
			value = Placeholder
		}
		fmt.Fprintf(&b, "%2d. %-22s %s\n", i+1, field.label+":", value)
	}

	b.WriteString("\n" + strings.Repeat("_", 60) + "\n")
	b.WriteString("Signature of Registering Authority\n")
	b.WriteString("(TAMIL NADU STATE TRANSPORT DEPARTMENT)\n")

	return []byte(b.String())
}

// DocumentFilename derives the output file name from the canonical
// identifier (separators are already absent from canonical form).
func DocumentFilename(id domain.VehicleID) string {
	return id.String() + "_RC.txt"
}

// formatDate renders an upstream date string as day/abbreviated-month/year.
// Unparseable non-empty input is passed through unchanged; empty input
// renders as the placeholder.
func formatDate(raw string) string {
	if raw == "" {
		return Placeholder
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}
	return raw
}
