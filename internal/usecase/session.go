package usecase

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/repricer/internal/domain"
)

type Config struct {
	DefaultFeePct float64
	Shipping      domain.ShippingDefaults
}

// ProcessReport summarizes one load-and-join run.
type ProcessReport struct {
	Session           string
	ListingRows       int
	IntelligenceFiles int
	IntelligenceRows  int
	Matched           int
	Unmatched         int
	UnmatchedKeys     []string
	UnknownLocales    []string
	CategoriesMatched int
	NegativeMargin    int
	Timestamp         time.Time
}

// Session owns the working table of one user for the lifetime of a set of
// uploads. Every operation either completes or leaves the table as it was.
// A Session is not safe for concurrent use; give each user their own.
type Session struct {
	ID uuid.UUID

	cfg    Config
	feePct float64
	log    zerolog.Logger

	listing *domain.ListingTable
	intel   []*domain.IntelligenceTable
	costs   *domain.CostTable
	fees    *domain.FeeSchedule

	combined *domain.IntelligenceTable
	table    *domain.MergedTable
}

func NewSession(cfg Config) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		cfg:    cfg,
		feePct: cfg.DefaultFeePct,
		log:    log.With().Str("session", id.String()).Logger(),
	}
}

// LoadListing replaces the listing and discards the working table.
func (s *Session) LoadListing(t *domain.ListingTable) {
	s.listing = t
	s.table = nil
	s.combined = nil
	s.log.Info().Str("file", t.Name).Int("rows", len(t.Rows)).Msg("listing loaded")
}

func (s *Session) AddIntelligence(t *domain.IntelligenceTable) {
	s.intel = append(s.intel, t)
	s.log.Info().Str("file", t.Source).Int("rows", len(t.Rows)).Msg("intelligence loaded")
}

func (s *Session) ClearIntelligence() {
	s.intel = nil
}

// SetCosts sets or, with nil, removes the purchase-cost table.
func (s *Session) SetCosts(t *domain.CostTable) {
	s.costs = t
	if t != nil {
		s.log.Info().Str("file", t.Source).Int("skus", len(t.Rows)).Msg("costs loaded")
	}
}

// SetFees sets or, with nil, removes the category fee schedule.
func (s *Session) SetFees(f *domain.FeeSchedule) {
	s.fees = f
	if f != nil {
		s.log.Info().Int("categories", len(f.Categories)).Msg("fee schedule loaded")
	}
}

func (s *Session) FeeCategories() []string {
	if s.fees == nil {
		return nil
	}
	return append([]string(nil), s.fees.Categories...)
}

func (s *Session) Listing() *domain.ListingTable { return s.listing }

// AsinsByLocale lists the loaded listing's product codes per locale.
func (s *Session) AsinsByLocale() map[string][]string {
	return AsinsByLocale(s.listing)
}

// Process builds the working table from the loaded files: locale
// normalization, join, purchase costs, shipping defaults, fee categories and
// metrics.
func (s *Session) Process() (*ProcessReport, error) {
	if s.listing == nil {
		return nil, fmt.Errorf("listing: %w", domain.ErrNoData)
	}
	if len(s.intel) == 0 {
		return nil, fmt.Errorf("intelligence: %w", domain.ErrNoData)
	}

	// the loaded tables stay as uploaded; only copies are labelled
	unknown := map[string]struct{}{}
	labelled := make([]*domain.IntelligenceTable, 0, len(s.intel))
	for _, in := range s.intel {
		t := in.Clone()
		if err := NormalizeIntelligence(t); err != nil {
			s.log.Error().Err(err).Msg("normalize locales")
			return nil, err
		}
		for _, r := range t.Rows {
			if r.Locale != "" && r.Marketplace == r.Locale {
				unknown[r.Locale] = struct{}{}
			}
		}
		labelled = append(labelled, t)
	}
	combined := ConcatIntelligence(labelled...)

	joined, err := Join(s.listing, combined)
	if err != nil {
		s.log.Error().Err(err).Msg("join")
		return nil, err
	}
	joined = AttachCosts(joined, s.costs)

	rep := &ProcessReport{
		Session:           s.ID.String(),
		ListingRows:       len(s.listing.Rows),
		IntelligenceFiles: len(s.intel),
		IntelligenceRows:  len(combined.Rows),
		Timestamp:         time.Now(),
	}
	for i := range joined.Rows {
		r := &joined.Rows[i]
		r.Shipping = domain.Float(s.cfg.Shipping.For(r.Marketplace))
		if s.fees != nil {
			r.FeeCategory = MatchCategory(r.Category, s.fees.Categories)
			if r.FeeCategory != "" {
				rep.CategoriesMatched++
			}
		}
		applyCategoryFee(r, s.fees)
		if !r.Matched {
			rep.UnmatchedKeys = append(rep.UnmatchedKeys, r.ProductCode+" @ "+r.Marketplace)
		}
	}
	table := Recompute(joined, s.feePct)

	sum := Summarize(table)
	rep.Matched, rep.Unmatched, rep.NegativeMargin = sum.Matched, sum.Unmatched, sum.NegativeMargin
	for l := range unknown {
		rep.UnknownLocales = append(rep.UnknownLocales, l)
	}
	sort.Strings(rep.UnknownLocales)

	s.combined = combined
	s.table = table
	s.log.Info().
		Int("rows", rep.ListingRows).
		Int("matched", rep.Matched).
		Int("unmatched", rep.Unmatched).
		Int("negative_margin", rep.NegativeMargin).
		Strs("unknown_locales", rep.UnknownLocales).
		Msg("data processed")
	return rep, nil
}

// Table returns a copy of the working table.
func (s *Session) Table() *domain.MergedTable { return s.table.Clone() }

func (s *Session) FeePct() float64 { return s.feePct }

// SetFeePct changes the global fee and recomputes every row.
func (s *Session) SetFeePct(pct float64) error {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return fmt.Errorf("fee percentage %v out of range [0,100]", pct)
	}
	s.feePct = pct
	if s.table != nil {
		s.table = Recompute(s.table, pct)
	}
	s.log.Info().Float64("fee_pct", pct).Msg("global fee changed")
	return nil
}

func (s *Session) SetPrice(idx int, price *float64) error {
	return s.edit(idx, func(r *domain.Merged) {
		r.Price = domain.CopyFloat(price)
	})
}

// SetShipping overrides the marketplace default until the row's marketplace
// changes or the row is reset.
func (s *Session) SetShipping(idx int, cost *float64) error {
	return s.edit(idx, func(r *domain.Merged) {
		r.Shipping = domain.CopyFloat(cost)
		r.ShippingOverride = true
	})
}

func (s *Session) SetPurchaseCost(idx int, cost *float64) error {
	return s.edit(idx, func(r *domain.Merged) {
		r.PurchaseCost = domain.CopyFloat(cost)
	})
}

// SetFeeCategory picks the fee category of a row; "" falls back to the
// global fee. A category picked here survives marketplace changes.
func (s *Session) SetFeeCategory(idx int, category string) error {
	if category != "" && (s.fees == nil || s.fees.Fees[category] == nil) {
		return fmt.Errorf("unknown fee category %q", category)
	}
	return s.edit(idx, func(r *domain.Merged) {
		r.FeeCategory = category
		r.FeeCategoryManual = true
		applyCategoryFee(r, s.fees)
	})
}

// SetMarketplace moves a row to another marketplace: the shipping override is
// dropped, shipping goes back to the new default and the intelligence data is
// looked up again for the new key. A fee category that was matched
// automatically is matched again against the new intelligence category.
func (s *Session) SetMarketplace(idx int, label string) error {
	return s.edit(idx, func(r *domain.Merged) {
		r.Marketplace = label
		r.Shipping = domain.Float(s.cfg.Shipping.For(label))
		r.ShippingOverride = false
		r.Matched, r.ReferencePrice, r.Category = false, nil, ""
		if s.combined != nil {
			for _, in := range s.combined.Rows {
				if in.ProductCode == r.ProductCode && in.Marketplace == label {
					r.Matched = true
					r.ReferencePrice = domain.CopyFloat(in.ReferencePrice)
					r.Category = in.Category
					break
				}
			}
		}
		if !r.FeeCategoryManual && s.fees != nil {
			r.FeeCategory = MatchCategory(r.Category, s.fees.Categories)
		}
		applyCategoryFee(r, s.fees)
	})
}

// ResetRow restores the loaded price and the default shipping cost.
func (s *Session) ResetRow(idx int) error {
	return s.edit(idx, func(r *domain.Merged) {
		r.Price = domain.CopyFloat(r.OriginalPrice)
		r.Shipping = domain.Float(s.cfg.Shipping.For(r.Marketplace))
		r.ShippingOverride = false
	})
}

// Apply runs a bulk operation on the selected rows and recomputes the table.
func (s *Session) Apply(sel Selector, op Operation) (BulkResult, error) {
	if s.table == nil {
		return BulkResult{}, domain.ErrNotProcessed
	}
	next, res, err := ApplyOperation(s.table, sel, op)
	if err != nil {
		s.log.Error().Err(err).Str("op", op.String()).Msg("bulk operation")
		return res, err
	}
	s.table = Recompute(next, s.feePct)
	s.log.Info().
		Str("op", op.String()).
		Int("selected", len(sel)).
		Int("mutated", res.Mutated).
		Int("skipped", len(res.Skipped)).
		Msg("bulk operation applied")
	return res, nil
}

// Export projects the current table onto the loaded listing.
func (s *Session) Export() (*domain.ExportTable, error) {
	if s.table == nil {
		return nil, domain.ErrNotProcessed
	}
	out, err := ProjectForExport(s.listing, s.table)
	if err != nil {
		s.log.Error().Err(err).Msg("export")
		return nil, err
	}
	s.log.Info().Int("rows", len(out.Rows)).Msg("export ready")
	return out, nil
}

func (s *Session) edit(idx int, fn func(*domain.Merged)) error {
	if s.table == nil {
		return domain.ErrNotProcessed
	}
	if idx < 0 || idx >= len(s.table.Rows) {
		return &domain.RowSelectorError{Indices: []int{idx}, Rows: len(s.table.Rows)}
	}
	row := s.table.Rows[idx]
	fn(&row)
	s.table.Rows[idx] = RecomputeRow(row, s.feePct)
	return nil
}
