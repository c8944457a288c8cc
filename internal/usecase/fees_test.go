package usecase

import (
	"testing"

	"github.com/phenrril/repricer/internal/domain"
)

func TestParseFeeString(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"15%", 15, true},
		{"15% fino a 10 €; 8% oltre", 15, true},
		{"Commissione 7,5 %", 7.5, true},
		{"12.25%", 12.25, true},
		{"n/d", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseFeeString(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%q: got %v %v, want %v %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func feeSchedule() *domain.FeeSchedule {
	return &domain.FeeSchedule{
		Categories: []string{"Casa e cucina", "Elettronica di consumo"},
		Columns:    []string{"Amazon.it", "Amazon.de"},
		Fees: map[string]map[string]string{
			"Casa e cucina":          {"Amazon.it": "15%", "Amazon.de": "15%"},
			"Elettronica di consumo": {"Amazon.it": "7%", "Amazon.de": "n/d"},
		},
	}
}

func TestCategoryFee(t *testing.T) {
	s := feeSchedule()
	if fee, ok := CategoryFee(s, "Elettronica di consumo", itLabel); !ok || fee != 7 {
		t.Fatalf("it: %v %v", fee, ok)
	}
	if _, ok := CategoryFee(s, "Elettronica di consumo", deLabel); ok {
		t.Fatalf("unparsable fee should fall back")
	}
	if _, ok := CategoryFee(s, "Elettronica di consumo", "Francia - Amazon.fr"); ok {
		t.Fatalf("missing column should fall back")
	}
	if _, ok := CategoryFee(nil, "Casa e cucina", itLabel); ok {
		t.Fatalf("nil schedule")
	}
}

func TestMatchCategory(t *testing.T) {
	cats := feeSchedule().Categories
	if got := MatchCategory("ELETTRONICA", cats); got != "Elettronica di consumo" {
		t.Fatalf("got %q", got)
	}
	if got := MatchCategory("Giochi", cats); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := MatchCategory("  ", cats); got != "" {
		t.Fatalf("blank category matched %q", got)
	}
}
