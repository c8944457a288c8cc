package fileio

import (
	"encoding/csv"
	"io"

	"github.com/phenrril/repricer/internal/domain"
)

// WriteListing writes the export the way the listing tool expects it back:
// UTF-8 with a byte-order mark, ';' separated, prices with a decimal comma.
func (f *Files) WriteListing(w io.Writer, t *domain.ExportTable) error {
	if t == nil {
		return domain.ErrNoData
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		copy(cells, row.Cells)
		if t.PriceColumn >= 0 && t.PriceColumn < len(cells) {
			cells[t.PriceColumn] = FormatPrice(row.Price)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
