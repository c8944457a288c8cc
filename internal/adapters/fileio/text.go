package fileio

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/phenrril/repricer/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText strips a UTF-8 byte-order mark and falls back to Latin-1 when
// the content is not valid UTF-8.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func readCSV(r io.Reader, comma rune) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	text, err := decodeText(data)
	if err != nil {
		return nil, nil, err
	}
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	return all[0], all[1:], nil
}

func missingColumns(header []string, required ...string) []string {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, c := range required {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// ParsePrice reads a price cell such as "19,99", "€ 1.234,50", "1'299,00" or
// "19.99". Empty or unparsable cells are nil.
func ParsePrice(s string) *float64 {
	s = strings.NewReplacer("€", "", "'", "", " ", "", "\u00a0", "", "\t", "").Replace(s)
	if s == "" || s == "-" {
		return nil
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	v, _ := d.Float64()
	if !domain.IsFinite(v) {
		return nil
	}
	return &v
}

// FormatPrice renders a price with two decimals and a decimal comma; nil and
// non-finite values are an empty cell.
func FormatPrice(p *float64) string {
	if p == nil || !domain.IsFinite(*p) {
		return ""
	}
	return strings.Replace(decimal.NewFromFloat(*p).StringFixed(2), ".", ",", 1)
}
