package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rcvault/internal/ledger"
)

// PageSize is the fixed page length of the history table.
const PageSize = 10

// Absent optional columns render as this token in tables and exports.
const tablePlaceholder = "-"

const timestampLayout = "02 Jan 2006, 03:04 pm"

// CSVHeader is the export header row.
var CSVHeader = []string{"Date", "Type", "Vehicle Number", "Amount", "Cost"}

// Row is one rendered transaction. All columns are display strings with
// placeholders already substituted.
type Row struct {
	Date          string `json:"date"`
	Kind          string `json:"type"`
	VehicleNumber string `json:"vehicle_number"`
	Amount        string `json:"amount"`
	Cost          string `json:"cost"`
}

// Rows renders transactions latest-first, optionally filtered by a
// case-insensitive substring match over identifier and kind. The input is
// expected oldest-first as the ledger stores it; the input slice is not
// modified.
func Rows(txns []ledger.Transaction, filter string) []Row {
	filter = strings.ToLower(strings.TrimSpace(filter))

	rows := make([]Row, 0, len(txns))
	for i := len(txns) - 1; i >= 0; i-- {
		txn := txns[i]
		if filter != "" && !matches(txn, filter) {
			continue
		}
		rows = append(rows, toRow(txn))
	}
	return rows
}

func matches(txn ledger.Transaction, filter string) bool {
	return strings.Contains(strings.ToLower(txn.VehicleNumber.String()), filter) ||
		strings.Contains(strings.ToLower(string(txn.Kind)), filter)
}

func toRow(txn ledger.Transaction) Row {
	row := Row{
		Date:          txn.Timestamp.Format(timestampLayout),
		Kind:          string(txn.Kind),
		VehicleNumber: tablePlaceholder,
		Amount:        tablePlaceholder,
		Cost:          tablePlaceholder,
	}
	if txn.VehicleNumber != "" {
		row.VehicleNumber = txn.VehicleNumber.String()
	}
	if txn.Amount != 0 {
		row.Amount = strconv.FormatInt(txn.Amount, 10)
	}
	if txn.Cost != 0 {
		row.Cost = strconv.FormatInt(txn.Cost, 10)
	}
	return row
}

// Page slices rows to the requested 1-based page and reports the total page
// count. Out-of-range pages clamp to the nearest valid page; an empty input
// has one empty page.
func Page(rows []Row, page int) ([]Row, int) {
	totalPages := (len(rows) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], totalPages
}

// CSV encodes rows as the export file: header first, one line per row. An
// empty input produces a file containing only the header.
func CSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Date, row.Kind, row.VehicleNumber, row.Amount, row.Cost}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVFilename derives the export file name from the export date.
func CSVFilename(now time.Time) string {
	return "transactions_" + now.Format("2006-01-02") + ".csv"
}
