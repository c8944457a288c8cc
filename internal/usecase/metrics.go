package usecase

import "github.com/phenrril/repricer/internal/domain"

// Recompute returns a copy of t with every derived column recomputed.
// feePct is the global marketplace fee used by rows without a category fee.
func Recompute(t *domain.MergedTable, feePct float64) *domain.MergedTable {
	out := t.Clone()
	if out == nil {
		return &domain.MergedTable{}
	}
	for i := range out.Rows {
		out.Rows[i] = RecomputeRow(out.Rows[i], feePct)
	}
	return out
}

// RecomputeRow derives buy box, price differences, fee and net margin from
// the row's inputs. A null or non-finite operand, a zero price under
// diff_pct or a result too large to represent yields null; nothing here
// returns an error.
func RecomputeRow(r domain.Merged, feePct float64) domain.Merged {
	r.BuyBox = finite(r.ReferencePrice)
	r.FeePct = feePct
	if fo := finite(r.FeeOverride); fo != nil {
		r.FeePct = *fo
	}
	r.DiffEuro, r.DiffPct, r.NetMargin = nil, nil, nil

	price := finite(r.Price)
	if price != nil && r.BuyBox != nil {
		r.DiffEuro = domain.Cents(*r.BuyBox - *price)
		if *price != 0 {
			r.DiffPct = domain.Cents((*r.BuyBox / *price - 1) * 100)
		}
	}

	// missing shipping propagates null, missing purchase cost counts as zero
	if ship := finite(r.Shipping); price != nil && ship != nil {
		cost := 0.0
		if c := finite(r.PurchaseCost); c != nil {
			cost = *c
		}
		fee := r.FeePct / 100 * *price
		r.NetMargin = domain.Cents(*price - fee - *ship - cost)
	}
	r.NegativeMargin = r.NetMargin != nil && *r.NetMargin < 0
	return r
}

type Summary struct {
	Rows           int
	Matched        int
	Unmatched      int
	MissingPrice   int
	MissingBuyBox  int
	NegativeMargin int
}

func Summarize(t *domain.MergedTable) Summary {
	s := Summary{Rows: t.Len()}
	if t == nil {
		return s
	}
	for _, r := range t.Rows {
		if r.Matched {
			s.Matched++
		} else {
			s.Unmatched++
		}
		if r.Price == nil {
			s.MissingPrice++
		}
		if r.BuyBox == nil {
			s.MissingBuyBox++
		}
		if r.NegativeMargin {
			s.NegativeMargin++
		}
	}
	return s
}

func finite(p *float64) *float64 {
	if p == nil || !domain.IsFinite(*p) {
		return nil
	}
	return domain.Float(*p)
}
