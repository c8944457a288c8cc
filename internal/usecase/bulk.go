package usecase

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/phenrril/repricer/internal/domain"
)

type OpKind int

const (
	OpScaleAmount OpKind = iota + 1
	OpScalePercent
	OpAlignReference
)

// Operation is one bulk price edit. Build it with ScaleByAmount,
// ScaleByPercent or AlignToReference.
type Operation struct {
	Kind    OpKind
	Delta   float64
	Percent bool
}

func ScaleByAmount(delta float64) Operation {
	return Operation{Kind: OpScaleAmount, Delta: delta}
}

func ScaleByPercent(pct float64) Operation {
	return Operation{Kind: OpScalePercent, Delta: pct, Percent: true}
}

// AlignToReference sets the price to the buy box minus delta, in currency
// units or, with percent, as a percentage of the buy box.
func AlignToReference(delta float64, percent bool) Operation {
	return Operation{Kind: OpAlignReference, Delta: delta, Percent: percent}
}

func (o Operation) String() string {
	unit := "€"
	if o.Percent {
		unit = "%"
	}
	switch o.Kind {
	case OpScaleAmount, OpScalePercent:
		return fmt.Sprintf("scale -%g%s", o.Delta, unit)
	case OpAlignReference:
		return fmt.Sprintf("align buybox -%g%s", o.Delta, unit)
	}
	return "unknown"
}

type SkipReason string

const (
	SkipNoPrice     SkipReason = "no_price"
	SkipNoReference SkipReason = "no_reference_price"
	SkipOutOfRange  SkipReason = "price_out_of_range"
)

type SkippedRow struct {
	Index  int
	Reason SkipReason
}

type BulkResult struct {
	Mutated int
	Skipped []SkippedRow
}

// Selector holds row positions in the working table.
type Selector []int

// ApplyOperation edits the price of the selected rows and nothing else.
// Derived columns are left stale; call Recompute afterwards. New prices are
// rounded to cents and never go below zero. Rows the operation cannot price
// are skipped and reported. A non-finite delta or an out-of-range selector
// fails before any row is touched and t itself is never modified.
func ApplyOperation(t *domain.MergedTable, sel Selector, op Operation) (*domain.MergedTable, BulkResult, error) {
	var res BulkResult
	switch op.Kind {
	case OpScaleAmount, OpScalePercent, OpAlignReference:
	default:
		return nil, res, fmt.Errorf("unknown bulk operation %d", op.Kind)
	}
	if !domain.IsFinite(op.Delta) {
		return nil, res, fmt.Errorf("bulk operation %s: delta must be a finite number", op)
	}
	rows, err := sel.normalize(t.Len())
	if err != nil {
		return nil, res, err
	}
	out := t.Clone()
	if out == nil {
		out = &domain.MergedTable{}
	}
	for _, i := range rows {
		r := &out.Rows[i]
		var next float64
		switch op.Kind {
		case OpScaleAmount, OpScalePercent:
			p := finite(r.Price)
			if p == nil {
				res.Skipped = append(res.Skipped, SkippedRow{Index: i, Reason: SkipNoPrice})
				continue
			}
			if op.Kind == OpScalePercent {
				next = *p * (1 - op.Delta/100)
			} else {
				next = *p - op.Delta
			}
		case OpAlignReference:
			bb := finite(r.ReferencePrice)
			if bb == nil {
				res.Skipped = append(res.Skipped, SkippedRow{Index: i, Reason: SkipNoReference})
				continue
			}
			if op.Percent {
				next = *bb * (1 - op.Delta/100)
			} else {
				next = *bb - op.Delta
			}
		}
		price := domain.Cents(math.Max(next, 0))
		if price == nil {
			res.Skipped = append(res.Skipped, SkippedRow{Index: i, Reason: SkipOutOfRange})
			continue
		}
		r.Price = price
		res.Mutated++
	}
	return out, res, nil
}

func (s Selector) normalize(n int) ([]int, error) {
	seen := make(map[int]struct{}, len(s))
	var out, bad []int
	for _, i := range s {
		if i < 0 || i >= n {
			bad = append(bad, i)
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	if len(bad) > 0 {
		return nil, &domain.RowSelectorError{Indices: bad, Rows: n}
	}
	sort.Ints(out)
	return out, nil
}

func SelectAll(t *domain.MergedTable) Selector {
	return SelectWhere(t, func(domain.Merged) bool { return true })
}

func SelectNegativeMargin(t *domain.MergedTable) Selector {
	return SelectWhere(t, func(r domain.Merged) bool { return r.NegativeMargin })
}

func SelectUnmatched(t *domain.MergedTable) Selector {
	return SelectWhere(t, func(r domain.Merged) bool { return !r.Matched })
}

func SelectWhere(t *domain.MergedTable, keep func(domain.Merged) bool) Selector {
	sel := Selector{}
	if t == nil {
		return sel
	}
	for i, r := range t.Rows {
		if keep(r) {
			sel = append(sel, i)
		}
	}
	return sel
}

// ParseSelector understands "all", "negative", "unmatched", an empty string
// and comma-separated indices or ranges such as "0,3,5-8". Indices past the
// end of t are a *domain.RowSelectorError.
func ParseSelector(s string, t *domain.MergedTable) (Selector, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Selector{}, nil
	case "all":
		return SelectAll(t), nil
	case "negative":
		return SelectNegativeMargin(t), nil
	case "unmatched":
		return SelectUnmatched(t), nil
	}
	n := t.Len()
	sel := Selector{}
	var bad []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid row selector %q", part)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || b < a {
				return nil, fmt.Errorf("invalid row selector %q", part)
			}
		}
		if b >= n {
			bad = append(bad, b)
			continue
		}
		for i := a; i <= b; i++ {
			sel = append(sel, i)
		}
	}
	if len(bad) > 0 {
		return nil, &domain.RowSelectorError{Indices: bad, Rows: n}
	}
	return sel, nil
}
