package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/savegress/mobitrace/pkg/models"
	"github.com/shopspring/decimal"
)

// Required feed columns.
const (
	ColumnDate   = "INITATE_DATE"
	ColumnReason = "REASON_NAME"
	ColumnDebit  = "DEBIT_MSISDN"
	ColumnCredit = "CREDIT_MSISDN"
	ColumnAmount = "ACTUAL_AMOUNT"
)

// DefaultBatchSize is the number of rows normalized per batch when no
// batch size is configured.
const DefaultBatchSize = 100000

// DayFormat is the calendar-date key derived from parsed timestamps.
const DayFormat = "2006-01-02"

// Timestamp layouts accepted for INITATE_DATE. Values matching none of
// them are coerced to the null sentinel.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Reader consumes a delimited transaction feed as a lazy sequence of
// bounded, normalized batches. The underlying feed is read exactly once;
// callers share the normalized batches across all detector families.
type Reader struct {
	csv       *csv.Reader
	batchSize int

	columns    map[string]int
	rowsRead   int
	rowsNoTime int
	headerRead bool
}

// NewReader creates a batched reader over a raw feed.
func NewReader(r io.Reader, batchSize int) *Reader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return &Reader{
		csv:       cr,
		batchSize: batchSize,
	}
}

// Next returns the next normalized batch. It returns io.EOF when the feed
// is exhausted; any other error aborts the run.
func (r *Reader) Next() ([]models.Transaction, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	batch := make([]models.Transaction, 0, r.batchSize)
	for len(batch) < r.batchSize {
		row, err := r.csv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feed row: %w", err)
		}

		txn := r.normalize(row)
		if !txn.HasTimestamp() {
			r.rowsNoTime++
		}
		r.rowsRead++
		batch = append(batch, txn)
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// RowsRead returns the number of data rows consumed so far.
func (r *Reader) RowsRead() int { return r.rowsRead }

// RowsWithoutTimestamp returns how many consumed rows had an unparsable
// timestamp.
func (r *Reader) RowsWithoutTimestamp() int { return r.rowsNoTime }

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("read feed header: %w", err)
	}

	r.columns = make(map[string]int, len(header))
	for i, name := range header {
		r.columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{ColumnDate, ColumnReason, ColumnDebit, ColumnCredit, ColumnAmount} {
		if _, ok := r.columns[required]; !ok {
			return fmt.Errorf("feed is missing required column %s", required)
		}
	}

	r.headerRead = true
	return nil
}

// normalize coerces one raw row into an immutable transaction record:
// reason lowercased and trimmed, party identifiers trimmed, timestamp
// parsed (failures become the null sentinel), amount parsed as a decimal
// (failures become zero).
func (r *Reader) normalize(row []string) models.Transaction {
	txn := models.Transaction{
		Reason:      strings.ToLower(strings.TrimSpace(r.field(row, ColumnReason))),
		DebitParty:  strings.TrimSpace(r.field(row, ColumnDebit)),
		CreditParty: strings.TrimSpace(r.field(row, ColumnCredit)),
		Amount:      parseAmount(r.field(row, ColumnAmount)),
	}

	if ts, ok := parseTimestamp(r.field(row, ColumnDate)); ok {
		txn.Timestamp = ts
		txn.Day = ts.Format(DayFormat)
	}

	return txn
}

func (r *Reader) field(row []string, column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseAmount(value string) decimal.Decimal {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if value == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
