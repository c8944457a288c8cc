package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/phenrril/repricer/internal/domain"
)

func TestProjectForExportFidelity(t *testing.T) {
	listing := listingOf(
		[4]string{"S1", "A1", itLabel, "10"},
		[4]string{"S2", "A2", deLabel, ""},
	)
	merged, err := Join(listing, nil)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	merged.Rows[0].Price = domain.Float(8.5)
	merged.Rows[0].Marketplace = deLabel

	out, err := ProjectForExport(listing, merged)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !reflect.DeepEqual(out.Columns, listing.Columns) {
		t.Fatalf("columns: %v", out.Columns)
	}
	if out.PriceColumn != 4 {
		t.Fatalf("price column: %d", out.PriceColumn)
	}
	for i, row := range out.Rows {
		if !reflect.DeepEqual(row.Cells, listing.Records[i]) {
			t.Fatalf("row %d cells changed: %v", i, row.Cells)
		}
	}
	wantFloat(t, "edited price", out.Rows[0].Price, 8.5)
	wantNull(t, "null price", out.Rows[1].Price)

	out.Rows[0].Cells[0] = "changed"
	if listing.Records[0][0] != "S1" {
		t.Fatalf("export shares records with the listing")
	}
}

func TestProjectForExportRowCountMismatch(t *testing.T) {
	listing := listingOf(
		[4]string{"S1", "A1", itLabel, "10"},
		[4]string{"S2", "A2", itLabel, "10"},
	)
	merged, _ := Join(listing, nil)
	merged.Rows = merged.Rows[:1]

	_, err := ProjectForExport(listing, merged)
	var ae *domain.RowAlignmentError
	if !errors.As(err, &ae) || ae.Expected != 2 || ae.Got != 1 {
		t.Fatalf("expected RowAlignmentError 2/1, got %v", err)
	}
}

func TestProjectForExportReorderedRows(t *testing.T) {
	listing := listingOf(
		[4]string{"S1", "A1", itLabel, "10"},
		[4]string{"S2", "A2", itLabel, "10"},
	)
	merged, _ := Join(listing, nil)
	merged.Rows[0], merged.Rows[1] = merged.Rows[1], merged.Rows[0]

	_, err := ProjectForExport(listing, merged)
	var ae *domain.RowAlignmentError
	if !errors.As(err, &ae) || ae.Index != 0 {
		t.Fatalf("expected RowAlignmentError at 0, got %v", err)
	}
}

func TestProjectForExportMissingPriceColumn(t *testing.T) {
	listing := listingOf([4]string{"S1", "A1", itLabel, "10"})
	merged, _ := Join(listing, nil)
	listing.Fields.Price = "Prezzo"

	_, err := ProjectForExport(listing, merged)
	var mc *domain.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if _, err := ProjectForExport(nil, merged); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("nil listing: %v", err)
	}
}
