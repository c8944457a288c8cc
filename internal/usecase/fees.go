package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/phenrril/repricer/internal/domain"
)

var feePctRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)

// ParseFeeString returns the first percentage in a fee description. Tiered
// fees such as "15% fino a 10 €; 8% oltre" resolve to their first tier.
func ParseFeeString(s string) (float64, bool) {
	m := feePctRe.FindStringSubmatch(s)
	if len(m) != 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CategoryFee looks up the fee of a category on a marketplace. ok is false
// when the schedule, the category, the marketplace column or a parsable
// percentage is missing, in which case the caller uses the global fee.
func CategoryFee(s *domain.FeeSchedule, category, marketplace string) (float64, bool) {
	if s == nil || category == "" || marketplace == "" {
		return 0, false
	}
	byMarket, ok := s.Fees[category]
	if !ok {
		return 0, false
	}
	text, ok := byMarket[domain.MarketplaceDomain(marketplace)]
	if !ok {
		return 0, false
	}
	return ParseFeeString(text)
}

// MatchCategory picks the first fee category containing the intelligence
// category, case-insensitively. It returns "" when nothing matches.
func MatchCategory(intelCategory string, categories []string) string {
	needle := strings.ToLower(strings.TrimSpace(intelCategory))
	if needle == "" {
		return ""
	}
	for _, c := range categories {
		if c != "" && strings.Contains(strings.ToLower(c), needle) {
			return c
		}
	}
	return ""
}

// applyCategoryFee stores the resolved category fee on the row, or clears
// it so the global fee applies.
func applyCategoryFee(r *domain.Merged, s *domain.FeeSchedule) {
	if fee, ok := CategoryFee(s, r.FeeCategory, r.Marketplace); ok {
		r.FeeOverride = domain.Float(fee)
		return
	}
	r.FeeOverride = nil
}
