package ingestion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

const (
	fieldDelimiter = ','
	quoteChar      = '"'

	minColumns = 8

	colSymbol       = 1
	colCounterparty = 2
	colDealType     = 3
	colQuantity     = 4
	colPrice        = 5
)

// ErrMalformedRow marks a data row that cannot become a Deal. Such rows are
// skipped without failing the rest of the file.
var ErrMalformedRow = errors.New("malformed row")

// ParseDelimitedRow splits one comma-separated record into trimmed fields.
//
// A double quote toggles a quoted span and is dropped from the output; commas
// inside a quoted span are kept as content. Embedded quotes cannot be escaped.
// An unbalanced quote leaves the rest of the line in the last field.
//
// encoding/csv is not used: the exchange files mix quoted and unquoted fields
// in ways a strict reader rejects, and LazyQuotes keeps the quote characters.
func ParseDelimitedRow(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)

	for _, r := range line {
		switch {
		case r == quoteChar:
			quoted = !quoted
		case r == fieldDelimiter && !quoted:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))

	return fields
}

// ParseDeals converts the body of one daily file into buy-side deals.
// The first line is the header and is discarded; blank lines are ignored.
//
// Returns the accepted deals and the number of rows skipped as malformed or
// not buy-side.
func ParseDeals(body string, date time.Time) ([]models.Deal, int) {
	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return nil, 0
	}

	deals := make([]models.Deal, 0, len(lines)-1)
	skipped := 0

	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		d, err := recordToDeal(ParseDelimitedRow(line), date)
		if err != nil {
			skipped++
			continue
		}
		deals = append(deals, d)
	}

	return deals, skipped
}

// recordToDeal converts a parsed record into a buy-side Deal.
//
// Accepted only when:
//   - the record has at least 8 fields
//   - symbol and counterparty name are non-empty
//   - deal type is BUY (case-insensitive)
//   - quantity and price (thousands separators stripped) are both > 0
func recordToDeal(rec []string, date time.Time) (models.Deal, error) {
	var d models.Deal

	if len(rec) < minColumns {
		return d, fmt.Errorf("%w: expected at least %d columns, got %d", ErrMalformedRow, minColumns, len(rec))
	}

	symbol := strings.TrimSpace(rec[colSymbol])
	name := strings.TrimSpace(rec[colCounterparty])
	if symbol == "" || name == "" {
		return d, fmt.Errorf("%w: empty symbol or counterparty", ErrMalformedRow)
	}

	dealType := models.ParseDealType(rec[colDealType])
	if dealType != models.DealTypeBuy {
		return d, fmt.Errorf("%w: not a buy deal (%q)", ErrMalformedRow, rec[colDealType])
	}

	qty, err := parseAmount(rec[colQuantity])
	if err != nil {
		return d, fmt.Errorf("%w: quantity: %v", ErrMalformedRow, err)
	}
	price, err := parseAmount(rec[colPrice])
	if err != nil {
		return d, fmt.Errorf("%w: price: %v", ErrMalformedRow, err)
	}

	return models.Deal{
		Date:             date,
		Symbol:           symbol,
		CounterpartyName: name,
		Type:             dealType,
		Quantity:         qty,
		Price:            price,
	}, nil
}

// parseAmount parses "1,23,456.50" style numbers and requires a strictly positive value.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, errors.New("empty value")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive value %s", v)
	}
	return v, nil
}
