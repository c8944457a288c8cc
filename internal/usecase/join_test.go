package usecase

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/phenrril/repricer/internal/domain"
)

func normalized(t *testing.T, tables ...*domain.IntelligenceTable) *domain.IntelligenceTable {
	t.Helper()
	for _, tb := range tables {
		if err := NormalizeIntelligence(tb); err != nil {
			t.Fatalf("normalize: %v", err)
		}
	}
	return ConcatIntelligence(tables...)
}

func TestJoinKeepsEveryListingRow(t *testing.T) {
	listing := listingOf(
		[4]string{"S1", "A1", itLabel, "10"},
		[4]string{"S2", "A2", itLabel, "20"},
		[4]string{"S3", "A3", deLabel, ""},
	)
	intel := normalized(t, intelOf("k.csv",
		[4]string{"A1", "it", "9.5", "Casa"},
		[4]string{"A3", "it", "30", "Casa"},
		[4]string{"A9", "de", "1", "Giochi"},
	))

	got, err := Join(listing, intel)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("rows: got %d, want 3", got.Len())
	}
	for i, r := range got.Rows {
		if r.Index != i {
			t.Fatalf("row %d has index %d", i, r.Index)
		}
	}
	if !got.Rows[0].Matched || got.Rows[0].Category != "Casa" {
		t.Fatalf("row 0 should match: %+v", got.Rows[0])
	}
	wantFloat(t, "row 0 reference", got.Rows[0].ReferencePrice, 9.5)
	// A3 is listed on .de but only priced on .it
	if got.Rows[1].Matched || got.Rows[2].Matched {
		t.Fatalf("rows 1 and 2 should not match")
	}
	wantNull(t, "row 2 reference", got.Rows[2].ReferencePrice)
	wantNull(t, "row 2 price", got.Rows[2].Price)
	wantFloat(t, "row 1 original price", got.Rows[1].OriginalPrice, 20)
}

func TestJoinFirstMatchWins(t *testing.T) {
	listing := listingOf([4]string{"S1", "A1", itLabel, "10"})
	intel := intelOf("k.csv",
		[4]string{"A1", "it", "7", "First"},
		[4]string{"A1", "IT", "8", "Second"},
	)
	if err := NormalizeIntelligence(intel); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	got, err := Join(listing, intel)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("duplicates must not multiply rows, got %d", got.Len())
	}
	wantFloat(t, "reference", got.Rows[0].ReferencePrice, 7)
}

func TestJoinRequiresNormalizedIntelligence(t *testing.T) {
	listing := listingOf([4]string{"S1", "A1", itLabel, "10"})
	_, err := Join(listing, intelOf("keepa.csv", [4]string{"A1", "it", "7", ""}))

	var mc *domain.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if !strings.Contains(mc.Table, "keepa.csv") {
		t.Fatalf("table name not reported: %q", mc.Table)
	}
	if !reflect.DeepEqual(mc.Columns, []string{domain.MarketplaceColumn}) {
		t.Fatalf("columns: %v", mc.Columns)
	}
}

func TestJoinMissingListingColumn(t *testing.T) {
	listing := listingOf([4]string{"S1", "A1", itLabel, "10"})
	listing.Columns[3] = "Site"

	_, err := Join(listing, nil)
	var mc *domain.MissingColumnError
	if !errors.As(err, &mc) || mc.Columns[0] != "Sito" {
		t.Fatalf("expected missing Sito, got %v", err)
	}
}

func TestConcatIntelligenceKeepsLast(t *testing.T) {
	older := intelOf("old.csv",
		[4]string{"A1", "it", "10", "Casa"},
		[4]string{"A2", "it", "20", "Casa"},
	)
	newer := intelOf("new.xlsx", [4]string{"A1", "IT", "12", "Casa"})
	all := normalized(t, older, newer)

	if len(all.Rows) != 2 || len(all.Records) != 2 {
		t.Fatalf("rows: got %d", len(all.Rows))
	}
	if all.Source != "old.csv, new.xlsx" {
		t.Fatalf("source: %q", all.Source)
	}
	got, err := Join(listingOf([4]string{"S1", "A1", itLabel, "10"}), all)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	wantFloat(t, "reference", got.Rows[0].ReferencePrice, 12)
}

func TestNormalizeIntelligenceUnknownLocale(t *testing.T) {
	in := intelOf("k.csv", [4]string{"A1", "jp", "1", ""}, [4]string{"A2", "De", "1", ""})
	if err := NormalizeIntelligence(in); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if in.Rows[0].Marketplace != "jp" || in.Rows[1].Marketplace != deLabel {
		t.Fatalf("labels: %q %q", in.Rows[0].Marketplace, in.Rows[1].Marketplace)
	}
	idx, ok := in.ColumnIndex(domain.MarketplaceColumn)
	if !ok || in.Records[1][idx] != deLabel {
		t.Fatalf("marketplace column not written")
	}
	// running twice overwrites instead of adding a second column
	if err := NormalizeIntelligence(in); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(in.Columns) != 5 {
		t.Fatalf("columns: %v", in.Columns)
	}
}

func TestAttachCosts(t *testing.T) {
	joined, err := Join(listingOf(
		[4]string{"S1", "A1", itLabel, "10"},
		[4]string{" S2 ", "A2", itLabel, "10"},
		[4]string{"S3", "A3", itLabel, "10"},
	), nil)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	costs := &domain.CostTable{Rows: []domain.Cost{
		{SKU: "S1", Cost: domain.Float(3)},
		{SKU: "S1", Cost: domain.Float(99)},
		{SKU: "S2", Cost: domain.Float(4.5)},
	}}

	got := AttachCosts(joined, costs)
	wantFloat(t, "S1", got.Rows[0].PurchaseCost, 3)
	wantFloat(t, "S2", got.Rows[1].PurchaseCost, 4.5)
	wantFloat(t, "S3", got.Rows[2].PurchaseCost, 0)
	if joined.Rows[0].PurchaseCost != nil {
		t.Fatalf("input table modified")
	}
}

func TestAsinsByLocale(t *testing.T) {
	got := AsinsByLocale(listingOf(
		[4]string{"S1", "B2", itLabel, ""},
		[4]string{"S2", "B1", itLabel, ""},
		[4]string{"S3", "B2", itLabel, ""},
		[4]string{"S4", "B3", deLabel, ""},
		[4]string{"S5", "B4", "Mars - Amazon.mars", ""},
		[4]string{"S6", " ", itLabel, ""},
	))
	want := map[string][]string{"it": {"B1", "B2"}, "de": {"B3"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
