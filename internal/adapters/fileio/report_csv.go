package fileio

import (
	"encoding/csv"
	"io"

	"github.com/phenrril/repricer/internal/domain"
)

var reportHeader = []string{
	"SKU", "ASIN", "Sito", "Categoria", "Prezzo", "Buy Box", "Diff €", "Diff %",
	"Commissione %", "Spedizione", "Costo acquisto", "Margine netto", "Margine negativo",
}

// WriteReport dumps the working table with its derived columns, in the same
// conventions as the listing export.
func (f *Files) WriteReport(w io.Writer, t *domain.MergedTable) error {
	if t == nil {
		return domain.ErrNoData
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range t.Rows {
		neg := ""
		if r.NegativeMargin {
			neg = "SI"
		}
		fee := r.FeePct
		rec := []string{
			r.SKU, r.ProductCode, r.Marketplace, r.FeeCategory,
			FormatPrice(r.Price), FormatPrice(r.BuyBox), FormatPrice(r.DiffEuro), FormatPrice(r.DiffPct),
			FormatPrice(&fee), FormatPrice(r.Shipping), FormatPrice(r.PurchaseCost), FormatPrice(r.NetMargin),
			neg,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
