package fileio

import (
	"io"
	"sort"
	"strings"

	"github.com/phenrril/repricer/internal/domain"
)

const (
	CostSKUColumn     = "Codice"
	CostPriceColumn   = "Prezzo medio"
	FeeCategoryColumn = "Category"
)

// LoadCosts reads the average purchase price per SKU. A SKU listed twice
// keeps its first cost.
func (f *Files) LoadCosts(name string, r io.Reader) (*domain.CostTable, error) {
	header, records, err := readCSV(r, ';')
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	required := []string{CostSKUColumn, CostPriceColumn}
	if missing := missingColumns(header, required...); len(missing) > 0 {
		return nil, &domain.InvalidFileError{File: name, Expected: required, Found: header, Missing: missing}
	}
	sku, price := indexOf(header, CostSKUColumn), indexOf(header, CostPriceColumn)

	t := &domain.CostTable{Source: name}
	seen := map[string]struct{}{}
	for _, rec := range records {
		s := strings.TrimSpace(cell(rec, sku))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		t.Rows = append(t.Rows, domain.Cost{SKU: s, Cost: ParsePrice(cell(rec, price))})
	}
	return t, nil
}

// LoadFees reads the category fee table: a Category column followed by one
// column per marketplace domain ("Amazon.it", "Amazon.de", ...) holding the
// fee description. Either ';' or ',' is accepted as separator.
func (f *Files) LoadFees(name string, r io.Reader) (*domain.FeeSchedule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	comma := ','
	first, _, _ := strings.Cut(string(data), "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		comma = ';'
	}
	header, records, err := readCSV(strings.NewReader(string(data)), comma)
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if missing := missingColumns(header, FeeCategoryColumn); len(missing) > 0 {
		return nil, &domain.InvalidFileError{File: name, Expected: []string{FeeCategoryColumn}, Found: header, Missing: missing}
	}
	catIdx := indexOf(header, FeeCategoryColumn)

	s := &domain.FeeSchedule{Fees: map[string]map[string]string{}}
	for i, h := range header {
		if i != catIdx && h != "" {
			s.Columns = append(s.Columns, h)
		}
	}
	for _, rec := range records {
		cat := strings.TrimSpace(cell(rec, catIdx))
		if cat == "" {
			continue
		}
		if _, dup := s.Fees[cat]; dup {
			continue
		}
		byMarket := map[string]string{}
		for i, h := range header {
			if i == catIdx || h == "" {
				continue
			}
			if v := strings.TrimSpace(cell(rec, i)); v != "" {
				byMarket[h] = v
			}
		}
		s.Fees[cat] = byMarket
		s.Categories = append(s.Categories, cat)
	}
	sort.Strings(s.Categories)
	return s, nil
}
