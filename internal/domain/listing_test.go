package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestTableRequire(t *testing.T) {
	tb := Table{Columns: []string{"SKU", "Sito"}}
	if err := tb.Require("SKU"); err != nil {
		t.Fatalf("require: %v", err)
	}
	err := tb.Require("SKU", "Codice(ASIN)", "Prz.aggiornato")
	var mc *MissingColumnError
	if !errors.As(err, &mc) || len(mc.Columns) != 2 {
		t.Fatalf("expected two missing columns, got %v", err)
	}
	if !strings.Contains(err.Error(), "'Codice(ASIN)', 'Prz.aggiornato'") {
		t.Fatalf("message: %s", err)
	}
}

func TestMergedTableClone(t *testing.T) {
	in := &MergedTable{Rows: []Merged{{Price: Float(1), NetMargin: Float(2)}}}
	out := in.Clone()
	*out.Rows[0].Price = 5
	*out.Rows[0].NetMargin = 6
	if *in.Rows[0].Price != 1 || *in.Rows[0].NetMargin != 2 {
		t.Fatalf("clone shares pointers")
	}
	var nilTable *MergedTable
	if nilTable.Clone() != nil || nilTable.Len() != 0 {
		t.Fatalf("nil table")
	}
}

func TestRound2(t *testing.T) {
	tests := map[float64]float64{
		79.86000000000001: 79.86,
		1.005:             1.01,
		-2.345:            -2.35,
		10:                10,
	}
	for in, want := range tests {
		if got := Round2(in); got != want {
			t.Fatalf("%v: got %v, want %v", in, got, want)
		}
	}
	if got := Round2(math.Inf(1)); !math.IsInf(got, 1) {
		t.Fatalf("+Inf: got %v", got)
	}
	if got := Round2(math.NaN()); !math.IsNaN(got) {
		t.Fatalf("NaN: got %v", got)
	}
}

func TestCents(t *testing.T) {
	if got := Cents(2.345); got == nil || *got != 2.35 {
		t.Fatalf("got %v", got)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Cents(v); got != nil {
			t.Fatalf("%v: got %v, want null", v, *got)
		}
	}
}
