package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type CardTier string

const (
	CardTierHigh   CardTier = "high"
	CardTierMedium CardTier = "medium"
	CardTierLow    CardTier = "low"
)

// CardTierOf buckets risk for the skill card badge. The thresholds are looser
// than the graph's colour tiers.
func CardTierOf(risk float64) CardTier {
	switch {
	case risk > 0.7:
		return CardTierHigh
	case risk > 0.4:
		return CardTierMedium
	default:
		return CardTierLow
	}
}

func RiskPercent(risk float64) int {
	return int(math.Round(risk * 100))
}

type Summary struct {
	Score       string `json:"score"`
	StableCount int    `json:"stable_count"`
	AtRiskCount int    `json:"at_risk_count"`
}

// SummaryOf returns the headline metrics. A nil resume yields the zeroed
// "no analysis yet" summary.
func SummaryOf(r *Resume) Summary {
	if r == nil {
		return Summary{Score: "0.0/10"}
	}
	return Summary{
		Score:       fmt.Sprintf("%.1f/10", r.LongevityScore),
		StableCount: r.StableCount,
		AtRiskCount: r.AtRiskCount,
	}
}

// SortNewestFirst orders by CreatedAt descending, keeping the input order for
// equal timestamps.
func SortNewestFirst(list []Resume) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// SplitCurrent treats the first element as the current analysis and the rest
// as history.
func SplitCurrent(list []Resume) (*Resume, []Resume) {
	if len(list) == 0 {
		return nil, []Resume{}
	}
	cur := list[0]
	hist := make([]Resume, len(list)-1)
	copy(hist, list[1:])
	return &cur, hist
}

func FindByID(list []Resume, id int64) (Resume, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return Resume{}, false
}

// FirstName returns the first word of a full name, or fallback when empty.
func FirstName(name, fallback string) string {
	f := strings.Fields(name)
	if len(f) == 0 {
		return fallback
	}
	return f[0]
}
