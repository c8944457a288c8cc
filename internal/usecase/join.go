package usecase

import (
	"errors"
	"sort"
	"strings"

	"github.com/phenrril/repricer/internal/domain"
)

// NormalizeIntelligence labels every intelligence row with its marketplace
// and adds the marketplace_label column to the raw table.
func NormalizeIntelligence(t *domain.IntelligenceTable) error {
	labels, err := domain.NormalizeColumn(t.Table, t.Fields.Locale)
	if err != nil {
		return withTable(err, tableName("intelligence", t.Source))
	}
	idx, ok := t.ColumnIndex(domain.MarketplaceColumn)
	if !ok {
		t.Columns = append(t.Columns, domain.MarketplaceColumn)
		idx = len(t.Columns) - 1
	}
	for i := range t.Records {
		for len(t.Records[i]) <= idx {
			t.Records[i] = append(t.Records[i], "")
		}
		t.Records[i][idx] = labels[i]
	}
	for i := range t.Rows {
		if i < len(labels) {
			t.Rows[i].Marketplace = labels[i]
		} else {
			t.Rows[i].Marketplace = domain.NormalizeLocale(t.Rows[i].Locale)
		}
	}
	return nil
}

// ConcatIntelligence combines several intelligence uploads into one table.
// When the same (product, locale) pair appears more than once the last
// occurrence wins, so a later file overrides an earlier one.
func ConcatIntelligence(tables ...*domain.IntelligenceTable) *domain.IntelligenceTable {
	f := domain.CanonicalIntelligenceColumns
	out := &domain.IntelligenceTable{
		Table:  domain.Table{Columns: []string{f.ProductCode, f.Locale, f.ReferencePrice, f.Category, domain.MarketplaceColumn}},
		Fields: f,
	}
	var all []domain.Intelligence
	var sources []string
	for _, t := range tables {
		if t == nil {
			continue
		}
		all = append(all, t.Rows...)
		if t.Source != "" {
			sources = append(sources, t.Source)
		}
	}
	out.Source = strings.Join(sources, ", ")

	type key struct{ code, locale string }
	last := make(map[key]int, len(all))
	for i, r := range all {
		last[key{r.ProductCode, strings.ToLower(r.Locale)}] = i
	}
	for i, r := range all {
		if last[key{r.ProductCode, strings.ToLower(r.Locale)}] != i {
			continue
		}
		r.ReferencePrice = domain.CopyFloat(r.ReferencePrice)
		if r.Marketplace == "" {
			r.Marketplace = domain.NormalizeLocale(r.Locale)
		}
		out.Rows = append(out.Rows, r)
		out.Records = append(out.Records, []string{r.ProductCode, r.Locale, r.RawPrice, r.Category, r.Marketplace})
	}
	return out
}

// Join is a left outer join of the listing with the intelligence table on
// (product code, marketplace label). Every listing row yields exactly one
// merged row. When several intelligence rows share a key the first one in
// input order is used; duplicates are never averaged or multiplied.
func Join(listing *domain.ListingTable, intel *domain.IntelligenceTable) (*domain.MergedTable, error) {
	if listing == nil {
		return nil, domain.ErrNoData
	}
	if err := listing.Require(listing.Fields.ProductCode, listing.Fields.Marketplace); err != nil {
		return nil, withTable(err, tableName("listing", listing.Name))
	}
	if intel == nil {
		intel = ConcatIntelligence()
	}
	f := intel.Fields
	if err := intel.Require(f.ProductCode, f.Locale, f.ReferencePrice, f.Category, domain.MarketplaceColumn); err != nil {
		return nil, withTable(err, tableName("intelligence", intel.Source))
	}

	type key struct{ code, market string }
	first := make(map[key]int, len(intel.Rows))
	for i, r := range intel.Rows {
		k := key{strings.TrimSpace(r.ProductCode), r.Marketplace}
		if _, seen := first[k]; !seen {
			first[k] = i
		}
	}

	out := &domain.MergedTable{Rows: make([]domain.Merged, 0, len(listing.Rows))}
	for _, l := range listing.Rows {
		m := domain.Merged{
			Index:         l.Index,
			SKU:           l.SKU,
			ProductCode:   l.ProductCode,
			Description:   l.Description,
			Marketplace:   l.Marketplace,
			Price:         domain.CopyFloat(l.Price),
			OriginalPrice: domain.CopyFloat(l.Price),
		}
		if i, ok := first[key{strings.TrimSpace(l.ProductCode), l.Marketplace}]; ok {
			m.Matched = true
			m.ReferencePrice = domain.CopyFloat(intel.Rows[i].ReferencePrice)
			m.Category = intel.Rows[i].Category
		}
		out.Rows = append(out.Rows, m)
	}
	return out, nil
}

// AttachCosts sets each row's purchase cost from the cost table by SKU.
// Rows without a cost, or without a cost table, cost zero.
func AttachCosts(t *domain.MergedTable, costs *domain.CostTable) *domain.MergedTable {
	out := t.Clone()
	bySKU := map[string]float64{}
	if costs != nil {
		for _, c := range costs.Rows {
			sku := strings.TrimSpace(c.SKU)
			if _, seen := bySKU[sku]; seen || c.Cost == nil {
				continue
			}
			bySKU[sku] = *c.Cost
		}
	}
	for i := range out.Rows {
		out.Rows[i].PurchaseCost = domain.Float(bySKU[strings.TrimSpace(out.Rows[i].SKU)])
	}
	return out
}

// AsinsByLocale groups the listing's product codes by the locale of the
// marketplace they are listed on, for pasting into the price-intelligence
// tool. Codes are trimmed, de-duplicated and sorted; unknown marketplaces
// are left out.
func AsinsByLocale(listing *domain.ListingTable) map[string][]string {
	out := map[string][]string{}
	if listing == nil {
		return out
	}
	seen := map[string]map[string]struct{}{}
	for _, r := range listing.Rows {
		loc := domain.LocaleForMarketplace(r.Marketplace)
		code := strings.TrimSpace(r.ProductCode)
		if !domain.IsKnownLocale(loc) || code == "" {
			continue
		}
		if seen[loc] == nil {
			seen[loc] = map[string]struct{}{}
		}
		if _, dup := seen[loc][code]; dup {
			continue
		}
		seen[loc][code] = struct{}{}
		out[loc] = append(out[loc], code)
	}
	for loc := range out {
		sort.Strings(out[loc])
	}
	return out
}

func tableName(kind, source string) string {
	if source == "" {
		return kind
	}
	return kind + " (" + source + ")"
}

func withTable(err error, name string) error {
	var mc *domain.MissingColumnError
	if errors.As(err, &mc) {
		mc.Table = name
	}
	return err
}
