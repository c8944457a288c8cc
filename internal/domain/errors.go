package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoData       = errors.New("no data loaded")
	ErrNotProcessed = errors.New("data not processed")
)

// MissingColumnError names the required columns absent from a table.
type MissingColumnError struct {
	Table   string
	Columns []string
	Found   []string
}

func (e *MissingColumnError) Error() string {
	msg := "missing column"
	if len(e.Columns) > 1 {
		msg += "s"
	}
	msg += " " + quoteAll(e.Columns)
	if e.Table != "" {
		msg += " in " + e.Table
	}
	return msg
}

// RowAlignmentError is returned when export rows cannot be matched one to one
// with the loaded listing.
type RowAlignmentError struct {
	Expected int
	Got      int
	Index    int
}

func (e *RowAlignmentError) Error() string {
	if e.Expected != e.Got {
		return fmt.Sprintf("row alignment: listing has %d rows, working table has %d", e.Expected, e.Got)
	}
	return fmt.Sprintf("row alignment: working row %d does not map to a listing row", e.Index)
}

// RowSelectorError is returned when a selection references rows outside the table.
type RowSelectorError struct {
	Indices []int
	Rows    int
}

func (e *RowSelectorError) Error() string {
	return fmt.Sprintf("row selector: indices %v out of range [0,%d)", e.Indices, e.Rows)
}

// InvalidFileError wraps any failure to read an uploaded file.
type InvalidFileError struct {
	File     string
	Expected []string
	Found    []string
	Missing  []string
	Err      error
}

func (e *InvalidFileError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing columns. Expected: %s. Found: %s. Missing: %s",
			e.File, quoteAll(e.Expected), strings.Join(e.Found, ", "), strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: read error: %v", e.File, e.Err)
}

func (e *InvalidFileError) Unwrap() error { return e.Err }

func quoteAll(s []string) string {
	q := make([]string, len(s))
	for i, v := range s {
		q[i] = "'" + v + "'"
	}
	return strings.Join(q, ", ")
}
