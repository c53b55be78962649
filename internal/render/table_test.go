package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcvault/internal/ledger"
)

func sampleTransactions() []ledger.Transaction {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return []ledger.Transaction{
		{ID: 1, Timestamp: base, Kind: ledger.KindTopUp, Amount: 100},
		{ID: 2, Timestamp: base.Add(time.Minute), Kind: ledger.KindRCGeneration, Cost: 5, VehicleNumber: "TN01AB1234"},
		{ID: 3, Timestamp: base.Add(2 * time.Minute), Kind: ledger.KindRCGeneration, Cost: 5, VehicleNumber: "KA05MX0042"},
	}
}

func TestRows(t *testing.T) {
	t.Run("renders latest-first with placeholders", func(t *testing.T) {
		rows := Rows(sampleTransactions(), "")
		require.Len(t, rows, 3)

		// Latest transaction first.
		assert.Equal(t, "KA05MX0042", rows[0].VehicleNumber)
		assert.Equal(t, "rc_generation", rows[0].Kind)
		assert.Equal(t, "-", rows[0].Amount)
		assert.Equal(t, "5", rows[0].Cost)

		// The topup comes last and has no identifier or cost.
		topup := rows[2]
		assert.Equal(t, "topup", topup.Kind)
		assert.Equal(t, "-", topup.VehicleNumber)
		assert.Equal(t, "100", topup.Amount)
		assert.Equal(t, "-", topup.Cost)
		assert.Equal(t, "28 Aug 2026, 10:00 am", topup.Date)
	})

	t.Run("filter matches identifier case-insensitively", func(t *testing.T) {
		rows := Rows(sampleTransactions(), "tn01")
		require.Len(t, rows, 1)
		assert.Equal(t, "TN01AB1234", rows[0].VehicleNumber)
	})

	t.Run("filter matches kind", func(t *testing.T) {
		rows := Rows(sampleTransactions(), "TOPUP")
		require.Len(t, rows, 1)
		assert.Equal(t, "topup", rows[0].Kind)
	})

	t.Run("no match yields empty rows", func(t *testing.T) {
		assert.Empty(t, Rows(sampleTransactions(), "zz99zz"))
	})
}

func TestPage(t *testing.T) {
	var rows []Row
	for i := 0; i < 25; i++ {
		rows = append(rows, Row{Kind: fmt.Sprintf("row-%d", i)})
	}

	t.Run("fixed page size", func(t *testing.T) {
		page, total := Page(rows, 1)
		assert.Len(t, page, PageSize)
		assert.Equal(t, 3, total)
		assert.Equal(t, "row-0", page[0].Kind)
	})

	t.Run("last page is partial", func(t *testing.T) {
		page, total := Page(rows, 3)
		assert.Len(t, page, 5)
		assert.Equal(t, 3, total)
		assert.Equal(t, "row-20", page[0].Kind)
	})

	t.Run("out-of-range pages clamp", func(t *testing.T) {
		page, _ := Page(rows, 99)
		assert.Len(t, page, 5)
		page, _ = Page(rows, 0)
		assert.Len(t, page, PageSize)
	})

	t.Run("empty input has one empty page", func(t *testing.T) {
		page, total := Page(nil, 1)
		assert.Empty(t, page)
		assert.Equal(t, 1, total)
	})
}

func TestCSV(t *testing.T) {
	t.Run("empty log exports only the header", func(t *testing.T) {
		out, err := CSV(nil)
		require.NoError(t, err)
		assert.Equal(t, "Date,Type,Vehicle Number,Amount,Cost\n", string(out))
	})

	t.Run("one line per row with placeholders", func(t *testing.T) {
		rows := Rows(sampleTransactions(), "")
		out, err := CSV(rows)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Date,Type,Vehicle Number,Amount,Cost", lines[0])
		assert.Contains(t, lines[1], "rc_generation,KA05MX0042,-,5")
		assert.Contains(t, lines[3], "topup,-,100,-")
	})

	t.Run("filtered export includes only matching rows", func(t *testing.T) {
		out, err := CSV(Rows(sampleTransactions(), "ka05"))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "KA05MX0042")
	})
}

func TestCSVFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "transactions_2026-08-28.csv", CSVFilename(now))
}
