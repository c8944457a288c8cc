package usecase

import "github.com/phenrril/repricer/internal/domain"

// ProjectForExport rebuilds the listing exactly as loaded, column set, column
// order and row order included, carrying the current price of every row.
// Rows are aligned by their stable listing index, never by re-joining.
func ProjectForExport(original *domain.ListingTable, merged *domain.MergedTable) (*domain.ExportTable, error) {
	if original == nil || merged == nil {
		return nil, domain.ErrNoData
	}
	priceCol, ok := original.ColumnIndex(original.Fields.Price)
	if !ok {
		return nil, &domain.MissingColumnError{
			Table:   tableName("listing", original.Name),
			Columns: []string{original.Fields.Price},
			Found:   original.Columns,
		}
	}
	n := len(original.Records)
	if merged.Len() != n || len(original.Rows) != n {
		return nil, &domain.RowAlignmentError{Expected: n, Got: merged.Len()}
	}

	out := &domain.ExportTable{
		Columns:     append([]string(nil), original.Columns...),
		PriceColumn: priceCol,
		Rows:        make([]domain.ExportRow, n),
		Name:        original.Name,
	}
	for i, r := range merged.Rows {
		if r.Index != i || original.Rows[i].Index != i {
			return nil, &domain.RowAlignmentError{Expected: n, Got: n, Index: i}
		}
		out.Rows[i] = domain.ExportRow{
			Cells: append([]string(nil), original.Records[i]...),
			Price: domain.CopyFloat(r.Price),
		}
	}
	return out, nil
}
