package usecase

import (
	"strconv"
	"testing"

	"github.com/phenrril/repricer/internal/domain"
)

const (
	itLabel = "Italia - Amazon.it"
	deLabel = "Germania - Amazon.de"
)

// listingOf builds a listing from (sku, code, marketplace, price) rows; an
// empty price is null.
func listingOf(rows ...[4]string) *domain.ListingTable {
	f := domain.ReadyProColumns
	t := &domain.ListingTable{
		Table:  domain.Table{Columns: []string{f.SKU, f.ProductCode, f.Description, f.Marketplace, f.Price, "Quantità"}},
		Fields: f,
		Name:   "listing.csv",
	}
	for i, r := range rows {
		t.Records = append(t.Records, []string{r[0], r[1], "desc " + r[0], r[2], r[3], strconv.Itoa(i + 1)})
		t.Rows = append(t.Rows, domain.Listing{
			Index:       i,
			SKU:         r[0],
			ProductCode: r[1],
			Description: "desc " + r[0],
			Marketplace: r[2],
			Price:       parse(r[3]),
		})
	}
	return t
}

// intelOf builds a normalized intelligence table from (code, locale, price,
// category) rows.
func intelOf(source string, rows ...[4]string) *domain.IntelligenceTable {
	f := domain.CanonicalIntelligenceColumns
	t := &domain.IntelligenceTable{
		Table:  domain.Table{Columns: []string{f.ProductCode, f.Locale, f.ReferencePrice, f.Category}},
		Fields: f,
		Source: source,
	}
	for _, r := range rows {
		t.Records = append(t.Records, []string{r[0], r[1], r[2], r[3]})
		t.Rows = append(t.Rows, domain.Intelligence{
			ProductCode:    r[0],
			Locale:         r[1],
			ReferencePrice: parse(r[2]),
			RawPrice:       r[2],
			Category:       r[3],
		})
	}
	return t
}

func parse(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}
	return &v
}

func wantFloat(t *testing.T, what string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: got null, want %v", what, want)
	}
	if *got != want {
		t.Fatalf("%s: got %v, want %v", what, *got, want)
	}
}

func wantNull(t *testing.T, what string, got *float64) {
	t.Helper()
	if got != nil {
		t.Fatalf("%s: got %v, want null", what, *got)
	}
}
