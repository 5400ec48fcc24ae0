// Package tastytrade reads the positions export of the tastytrade broker.
//
// The export is a CSV file with a header line. Only the columns needed to value
// a leg are read, by header name, so extra or reordered columns are fine.
package tastytrade

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPrefix is the file name prefix of tastytrade position exports.
const DefaultPrefix = "tastytrade_positions"

// Column names of the export.
const (
	ColSymbol     = "Symbol"
	ColType       = "Type"
	ColQuantity   = "Quantity"
	ColTradePrice = "Trade Price"
	ColCallPut    = "Call/Put"
	ColStrike     = "Strike Price"
	ColDays       = "Days To Expiration"
	ColExpDate    = "Exp Date"
)

var requiredColumns = []string{ColSymbol, ColType, ColQuantity, ColTradePrice}

// Row types of the export. Other types (futures, crypto) are skipped.
const (
	TypeStock  = "STOCK"
	TypeOption = "OPTION"
)

// Row is one line of the export, cells kept as text.
type Row struct {
	Line       int // 1-based line in the file, header is line 1
	Symbol     string
	Type       string
	Quantity   string
	TradePrice string
	CallPut    string
	Strike     string
	Days       string
	ExpDate    string
}

// Table is a decoded export.
type Table struct {
	Rows []Row
}

// FindLatest returns the most recently modified file in dir whose name starts
// with prefix and ends with ".csv".
func FindLatest(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot list %s: %w", dir, err)
	}
	var latest string
	var latestTime time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("cannot stat %s: %w", name, err)
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest, latestTime = name, info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no files starting with %q found in %s: %w", prefix, dir, fs.ErrNotExist)
	}
	return filepath.Join(dir, latest), nil
}

// Load decodes the latest export found in dir.
func Load(dir, prefix string) (*Table, string, error) {
	path, err := FindLatest(dir, prefix)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, path, nil
}

// Decode reads an export. Rows that are neither stocks nor options are
// skipped.
func Decode(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty positions file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		// excel likes to prepend a BOM
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		cols[h] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}

	cell := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	t := new(Table)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		row := Row{
			Line:       line,
			Symbol:     cell(record, ColSymbol),
			Type:       strings.ToUpper(cell(record, ColType)),
			Quantity:   cell(record, ColQuantity),
			TradePrice: cell(record, ColTradePrice),
			CallPut:    cell(record, ColCallPut),
			Strike:     cell(record, ColStrike),
			Days:       cell(record, ColDays),
			ExpDate:    cell(record, ColExpDate),
		}
		if row.Type != TypeStock && row.Type != TypeOption {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Underlying returns the underlying symbol of the row: the first word of an
// option symbol, the symbol itself for a stock.
func (r Row) Underlying() string {
	if r.Type == TypeOption {
		if i := strings.IndexByte(r.Symbol, ' '); i >= 0 {
			return r.Symbol[:i]
		}
	}
	return r.Symbol
}

// Underlyings lists the underlyings of the table, without duplicates. Option
// underlyings come first, then stocks, each in file order.
func (t *Table) Underlyings() []string {
	var list []string
	seen := make(map[string]bool)
	add := func(typ string) {
		for _, r := range t.Rows {
			if r.Type != typ {
				continue
			}
			u := r.Underlying()
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			list = append(list, u)
		}
	}
	add(TypeOption)
	add(TypeStock)
	return list
}

// Legs returns the rows of an underlying: options first, then stocks, each in
// file order.
func (t *Table) Legs(underlying string) []Row {
	var legs []Row
	for _, typ := range []string{TypeOption, TypeStock} {
		for _, r := range t.Rows {
			if r.Type == typ && r.Underlying() == underlying {
				legs = append(legs, r)
			}
		}
	}
	return legs
}
