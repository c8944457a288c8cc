package fileio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/repricer/internal/domain"
)

// KeepaCSVColumns is the header of a Keepa product export in Italian.
var KeepaCSVColumns = domain.IntelligenceColumns{
	ProductCode:    "ASIN",
	Locale:         "Locale",
	ReferencePrice: "Buy Box 🚚: Corrente",
	Category:       "Gruppo di visualizzazione del sito web: Nome",
}

// KeepaXLSXColumns is the header of a Keepa product export in English.
var KeepaXLSXColumns = domain.IntelligenceColumns{
	ProductCode:    "ASIN",
	Locale:         "Locale",
	ReferencePrice: "Buy Box: Current",
	Category:       "Categories: Root",
}

// LoadIntelligence picks the reader from the file extension.
func (f *Files) LoadIntelligence(name string, r io.Reader) (*domain.IntelligenceTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return f.LoadKeepaCSV(name, r)
	case ".xlsx":
		return f.LoadKeepaXLSX(name, r)
	}
	return nil, &domain.InvalidFileError{File: name, Err: fmt.Errorf("unsupported format %q", filepath.Ext(name))}
}

func (f *Files) LoadKeepaCSV(name string, r io.Reader) (*domain.IntelligenceTable, error) {
	header, records, err := readCSV(r, ',')
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	// Excel sometimes leaves a stray mark in front of the first header cell.
	for i, h := range header {
		if h != KeepaCSVColumns.Locale && strings.HasSuffix(h, KeepaCSVColumns.Locale) {
			header[i] = KeepaCSVColumns.Locale
		}
	}
	return buildIntelligence(name, header, records, KeepaCSVColumns)
}

func (f *Files) LoadKeepaXLSX(name string, r io.Reader) (*domain.IntelligenceTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	x, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.InvalidFileError{File: name, Err: io.ErrUnexpectedEOF}
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.InvalidFileError{File: name, Err: io.ErrUnexpectedEOF}
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	var records [][]string
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, row)
	}
	return buildIntelligence(name, header, records, KeepaXLSXColumns)
}

func buildIntelligence(name string, header []string, records [][]string, cols domain.IntelligenceColumns) (*domain.IntelligenceTable, error) {
	required := []string{cols.Locale, cols.ProductCode, cols.ReferencePrice, cols.Category}
	if missing := missingColumns(header, required...); len(missing) > 0 {
		return nil, &domain.InvalidFileError{File: name, Expected: required, Found: header, Missing: missing}
	}
	code, loc := indexOf(header, cols.ProductCode), indexOf(header, cols.Locale)
	price, cat := indexOf(header, cols.ReferencePrice), indexOf(header, cols.Category)

	t := &domain.IntelligenceTable{
		Table:  domain.Table{Columns: header, Records: records},
		Fields: cols,
		Rows:   make([]domain.Intelligence, len(records)),
		Source: name,
	}
	for i, rec := range records {
		locale := strings.ToLower(strings.TrimSpace(cell(rec, loc)))
		if loc < len(rec) {
			rec[loc] = locale
		}
		raw := cell(rec, price)
		t.Rows[i] = domain.Intelligence{
			ProductCode:    strings.TrimSpace(cell(rec, code)),
			Locale:         locale,
			ReferencePrice: ParsePrice(raw),
			RawPrice:       raw,
			Category:       strings.TrimSpace(cell(rec, cat)),
		}
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
