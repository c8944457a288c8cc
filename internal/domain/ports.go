package domain

import "io"

// ListingSource reads the seller's listing export.
type ListingSource interface {
	LoadListing(name string, r io.Reader) (*ListingTable, error)
}

// IntelligenceSource reads one price-intelligence file, CSV or XLSX by name.
type IntelligenceSource interface {
	LoadIntelligence(name string, r io.Reader) (*IntelligenceTable, error)
}

type CostSource interface {
	LoadCosts(name string, r io.Reader) (*CostTable, error)
}

type FeeSource interface {
	LoadFees(name string, r io.Reader) (*FeeSchedule, error)
}

// ListingWriter serializes an export with the listing's original conventions.
type ListingWriter interface {
	WriteListing(w io.Writer, t *ExportTable) error
}
