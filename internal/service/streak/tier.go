package streak

import "sort"

// BonusTier pairs a streak length with the badge it awards. A tier is
// unlocked the moment the streak counter lands exactly on its threshold.
type BonusTier struct {
	Threshold int    `json:"threshold"`
	Badge     string `json:"badge"`
}

// DefaultBonusTiers returns the built-in badge ladder.
func DefaultBonusTiers() []BonusTier {
	return []BonusTier{
		{Threshold: 3, Badge: "bronze"},
		{Threshold: 7, Badge: "silver"},
		{Threshold: 14, Badge: "gold"},
		{Threshold: 30, Badge: "diamond"},
	}
}

// sortTiers returns a copy ordered by ascending threshold, dropping
// entries with a non-positive threshold or an empty badge.
func sortTiers(tiers []BonusTier) []BonusTier {
	sorted := make([]BonusTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Threshold > 0 && t.Badge != "" {
			sorted = append(sorted, t)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})
	return sorted
}
