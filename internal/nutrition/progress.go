package nutrition

import "math"

// Trend is the direction of weight change across the history.
type Trend string

const (
	TrendNone   Trend = "none"
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendSteady Trend = "steady"
)

// WeightPoint is one point of the weight chart.
type WeightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// WeightSummary is the trend view over a user's weight history.
type WeightSummary struct {
	Latest        *float64      `json:"latest_weight"`
	First         *float64      `json:"first_weight"`
	NetChange     float64       `json:"net_change"`
	ChangePercent float64       `json:"change_percent"`
	Trend         Trend         `json:"trend"`
	Series        []WeightPoint `json:"chart_series"`
}

// SummarizeWeights reduces a weight history to latest, first and net change.
// logs must already be sorted ascending by date; they are not re-sorted here.
func SummarizeWeights(logs []WeightLogEntry) WeightSummary {
	s := WeightSummary{
		Trend:  TrendNone,
		Series: make([]WeightPoint, 0, len(logs)),
	}
	if len(logs) == 0 {
		return s
	}

	for _, l := range logs {
		s.Series = append(s.Series, WeightPoint{Date: l.LogDate, Weight: l.Weight})
	}

	first := logs[0].Weight
	latest := logs[len(logs)-1].Weight
	s.First = &first
	s.Latest = &latest

	if len(logs) < 2 {
		s.Trend = TrendSteady
		return s
	}

	s.NetChange = roundTo(latest-first, 2)
	if first > 0 {
		s.ChangePercent = roundTo(100*(latest-first)/first, 2)
	}
	switch {
	case s.NetChange > 0:
		s.Trend = TrendUp
	case s.NetChange < 0:
		s.Trend = TrendDown
	default:
		s.Trend = TrendSteady
	}
	return s
}

// roundTo strips float noise such as 69.0-70.1 = -1.0999999.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
