package fileio

import (
	"io"
	"strings"

	"github.com/phenrril/repricer/internal/domain"
)

// Files reads and writes the semicolon separated exports of the listing tool
// and the Keepa price-intelligence files.
type Files struct {
	Listing domain.ListingColumns
}

func New() *Files {
	return &Files{Listing: domain.ReadyProColumns}
}

var (
	_ domain.ListingSource      = (*Files)(nil)
	_ domain.IntelligenceSource = (*Files)(nil)
	_ domain.CostSource         = (*Files)(nil)
	_ domain.FeeSource          = (*Files)(nil)
	_ domain.ListingWriter      = (*Files)(nil)
)

// LoadListing reads a ';' separated listing with decimal commas. Records are
// kept verbatim so the export can reproduce every other column.
func (f *Files) LoadListing(name string, r io.Reader) (*domain.ListingTable, error) {
	cols := f.Listing
	header, records, err := readCSV(r, ';')
	if err != nil {
		return nil, &domain.InvalidFileError{File: name, Err: err}
	}
	required := []string{cols.SKU, cols.ProductCode, cols.Marketplace, cols.Price}
	if missing := missingColumns(header, required...); len(missing) > 0 {
		return nil, &domain.InvalidFileError{File: name, Expected: required, Found: header, Missing: missing}
	}

	sku, code := indexOf(header, cols.SKU), indexOf(header, cols.ProductCode)
	desc, site, price := indexOf(header, cols.Description), indexOf(header, cols.Marketplace), indexOf(header, cols.Price)
	t := &domain.ListingTable{
		Table:  domain.Table{Columns: header, Records: records},
		Fields: cols,
		Rows:   make([]domain.Listing, len(records)),
		Name:   name,
	}
	for i, rec := range records {
		t.Rows[i] = domain.Listing{
			Index:       i,
			SKU:         cell(rec, sku),
			ProductCode: strings.TrimSpace(cell(rec, code)),
			Description: cell(rec, desc),
			Marketplace: cell(rec, site),
			Price:       ParsePrice(cell(rec, price)),
		}
	}
	return t, nil
}
