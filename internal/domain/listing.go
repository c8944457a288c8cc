package domain

// Table is a header plus raw string records in file order.
type Table struct {
	Columns []string
	Records [][]string
}

func (t Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns every cell of the named column. Short records yield "".
func (t Table) Column(name string) ([]string, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, &MissingColumnError{Columns: []string{name}, Found: t.Columns}
	}
	out := make([]string, len(t.Records))
	for i, rec := range t.Records {
		if idx < len(rec) {
			out[i] = rec[idx]
		}
	}
	return out, nil
}

// Require reports every name absent from the header.
func (t Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.ColumnIndex(n); !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing, Found: t.Columns}
	}
	return nil
}

// ListingColumns names the header cells holding each typed field.
type ListingColumns struct {
	SKU         string
	ProductCode string
	Description string
	Marketplace string
	Price       string
}

// ReadyProColumns is the header layout of the Ready Pro "Inserzioni Amazon" export.
var ReadyProColumns = ListingColumns{
	SKU:         "SKU",
	ProductCode: "Codice(ASIN)",
	Description: "Descrizione",
	Marketplace: "Sito",
	Price:       "Prz.aggiornato",
}

type Listing struct {
	Index       int
	SKU         string
	ProductCode string
	Description string
	Marketplace string
	Price       *float64
}

// ListingTable keeps the raw export next to its typed view so that the
// untouched columns can be written back verbatim.
type ListingTable struct {
	Table
	Fields ListingColumns
	Rows   []Listing
	Name   string
}

type IntelligenceColumns struct {
	ProductCode    string
	Locale         string
	ReferencePrice string
	Category       string
}

// CanonicalIntelligenceColumns is the header used once several intelligence
// files have been combined.
var CanonicalIntelligenceColumns = IntelligenceColumns{
	ProductCode:    "ASIN",
	Locale:         "Locale",
	ReferencePrice: "buybox_price",
	Category:       "Category",
}

// MarketplaceColumn is added to an intelligence table by the locale normalizer.
const MarketplaceColumn = "marketplace_label"

type Intelligence struct {
	ProductCode    string
	Locale         string
	Marketplace    string
	ReferencePrice *float64
	RawPrice       string
	Category       string
}

type IntelligenceTable struct {
	Table
	Fields IntelligenceColumns
	Rows   []Intelligence
	Source string
}

// Clone deep-copies the header, the records and the typed rows.
func (t *IntelligenceTable) Clone() *IntelligenceTable {
	if t == nil {
		return nil
	}
	out := &IntelligenceTable{
		Table: Table{
			Columns: append([]string(nil), t.Columns...),
			Records: make([][]string, len(t.Records)),
		},
		Fields: t.Fields,
		Rows:   make([]Intelligence, len(t.Rows)),
		Source: t.Source,
	}
	for i, rec := range t.Records {
		out.Records[i] = append([]string(nil), rec...)
	}
	for i, r := range t.Rows {
		r.ReferencePrice = CopyFloat(r.ReferencePrice)
		out.Rows[i] = r
	}
	return out
}

type Cost struct {
	SKU  string
	Cost *float64
}

type CostTable struct {
	Rows   []Cost
	Source string
}

// FeeSchedule maps a marketplace fee category to the fee text of every
// marketplace column, e.g. Fees["Elettronica"]["Amazon.it"] = "7% ...".
type FeeSchedule struct {
	Categories []string
	Columns    []string
	Fees       map[string]map[string]string
}

type Merged struct {
	Index       int
	SKU         string
	ProductCode string
	Description string
	Marketplace string

	Price         *float64
	OriginalPrice *float64

	Matched        bool
	ReferencePrice *float64
	Category       string

	Shipping          *float64
	ShippingOverride  bool
	PurchaseCost      *float64
	FeeCategory       string
	FeeCategoryManual bool
	FeeOverride       *float64

	// derived
	BuyBox         *float64
	FeePct         float64
	DiffEuro       *float64
	DiffPct        *float64
	NetMargin      *float64
	NegativeMargin bool
}

type MergedTable struct {
	Rows []Merged
}

func (t *MergedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone deep-copies the table, pointer fields included.
func (t *MergedTable) Clone() *MergedTable {
	if t == nil {
		return nil
	}
	out := &MergedTable{Rows: make([]Merged, len(t.Rows))}
	for i, r := range t.Rows {
		r.Price = CopyFloat(r.Price)
		r.OriginalPrice = CopyFloat(r.OriginalPrice)
		r.ReferencePrice = CopyFloat(r.ReferencePrice)
		r.Shipping = CopyFloat(r.Shipping)
		r.PurchaseCost = CopyFloat(r.PurchaseCost)
		r.FeeOverride = CopyFloat(r.FeeOverride)
		r.BuyBox = CopyFloat(r.BuyBox)
		r.DiffEuro = CopyFloat(r.DiffEuro)
		r.DiffPct = CopyFloat(r.DiffPct)
		r.NetMargin = CopyFloat(r.NetMargin)
		out.Rows[i] = r
	}
	return out
}

type ExportRow struct {
	Cells []string
	Price *float64
}

// ExportTable is the listing in its original shape; only Price differs from
// the loaded file and the writer renders it into Cells[PriceColumn].
type ExportTable struct {
	Columns     []string
	PriceColumn int
	Rows        []ExportRow
	Name        string
}
