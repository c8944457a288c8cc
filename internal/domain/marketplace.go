package domain

import (
	"sort"
	"strings"
)

var localeToMarketplace = map[string]string{
	"it": "Italia - Amazon.it",
	"fr": "Francia - Amazon.fr",
	"de": "Germania - Amazon.de",
	"es": "Spagna - Amazon.es",
	"nl": "Paesi bassi - Amazon.nl",
	"be": "Belgio - Amazon.com.be",
	"ie": "Irlanda - Amazon.ie",
	"se": "Svezia - Amazon.se",
}

var marketplaceToLocale = func() map[string]string {
	m := make(map[string]string, len(localeToMarketplace))
	for k, v := range localeToMarketplace {
		m[v] = k
	}
	return m
}()

// NormalizeLocale maps a two-letter locale code to its marketplace label.
// Unknown codes are returned unchanged so a new locale never aborts a join.
func NormalizeLocale(code string) string {
	if label, ok := localeToMarketplace[strings.ToLower(code)]; ok {
		return label
	}
	return code
}

// LocaleForMarketplace is the inverse of NormalizeLocale, with the same
// identity fallback.
func LocaleForMarketplace(label string) string {
	if code, ok := marketplaceToLocale[label]; ok {
		return code
	}
	return label
}

func IsKnownLocale(code string) bool {
	_, ok := localeToMarketplace[code]
	return ok
}

func KnownLocales() []string {
	out := make([]string, 0, len(localeToMarketplace))
	for k := range localeToMarketplace {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NormalizeColumn applies NormalizeLocale to every cell of the named column.
func NormalizeColumn(t Table, column string) ([]string, error) {
	cells, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = NormalizeLocale(c)
	}
	return out, nil
}

// MarketplaceDomain returns the "Amazon.xx" part of a label such as
// "Italia - Amazon.it", or the trimmed label when there is no separator.
func MarketplaceDomain(label string) string {
	if i := strings.LastIndex(label, " - "); i >= 0 {
		return strings.TrimSpace(label[i+3:])
	}
	return strings.TrimSpace(label)
}

type ShippingDefaults struct {
	DomesticMarket string
	Domestic       float64
	Other          float64
}

var DefaultShippingDefaults = ShippingDefaults{
	DomesticMarket: "Italia",
	Domestic:       5.14,
	Other:          11.50,
}

// For returns the shipping cost a row starts with on the given marketplace.
func (d ShippingDefaults) For(label string) float64 {
	if d.DomesticMarket != "" && strings.Contains(strings.ToLower(label), strings.ToLower(d.DomesticMarket)) {
		return d.Domestic
	}
	return d.Other
}
