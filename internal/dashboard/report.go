package dashboard

import (
	"fmt"
	"time"
)

// UnknownLabel stands in for a missing relation (match without venue, player without team).
// The parentheses keep it apart from a team or venue that is really called "Unknown".
const UnknownLabel = "(unknown)"

const monthLayout = "2006-01"

// Series is a pair of parallel label/value sequences that drives one chart.
type Series struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

func newSeries(capacity int) Series {
	return Series{Labels: make([]string, 0, capacity), Values: make([]int64, 0, capacity)}
}

func (s *Series) add(label string, value int64) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, value)
}

func (s Series) Len() int { return len(s.Labels) }

// CardMonth is a raw cards-per-month row, passed through to the page unshaped.
type CardMonth struct {
	Month time.Time `json:"month"`
	Type  string    `json:"type"`
	Count int64     `json:"count"`
}

// Report is built fresh for every request and discarded after rendering.
type Report struct {
	TeamCount     int64 `json:"team_count"`
	PlayerCount   int64 `json:"player_count"`
	MatchCount    int64 `json:"match_count"`
	InjuryCount   int64 `json:"injury_count"`
	TransferCount int64 `json:"transfer_count"`

	GoalsPerTeam      Series      `json:"goals_per_team"`
	CardsPerMonth     []CardMonth `json:"cards_per_month"`
	Standings         Series      `json:"standings"`
	TransfersPerMonth Series      `json:"transfers_per_month"`
	InjuriesPerTeam   Series      `json:"injuries_per_team"`
	MatchesPerVenue   Series      `json:"matches_per_venue"`

	GeneratedAt time.Time `json:"generated_at"`
}

// TemplateData flattens the report into the key names the dashboard template reads.
func (r *Report) TemplateData() map[string]any {
	return map[string]any{
		"team_count":     r.TeamCount,
		"player_count":   r.PlayerCount,
		"match_count":    r.MatchCount,
		"injury_count":   r.InjuryCount,
		"transfer_count": r.TransferCount,

		"goals_per_team_labels": r.GoalsPerTeam.Labels,
		"goals_per_team_values": r.GoalsPerTeam.Values,
		"cards_per_month_data":  r.CardsPerMonth,
		"standings_labels":      r.Standings.Labels,
		"standings_values":      r.Standings.Values,
		"transfers_months":      r.TransfersPerMonth.Labels,
		"transfers_counts":      r.TransfersPerMonth.Values,
		"injuries_team_labels":  r.InjuriesPerTeam.Labels,
		"injuries_team_values":  r.InjuriesPerTeam.Values,
		"matches_venue_labels":  r.MatchesPerVenue.Labels,
		"matches_venue_counts":  r.MatchesPerVenue.Values,

		"generated_at": r.GeneratedAt,
	}
}

func (r *Report) Summary() string {
	return fmt.Sprintf("teams=%d players=%d matches=%d injuries=%d transfers=%d",
		r.TeamCount, r.PlayerCount, r.MatchCount, r.InjuryCount, r.TransferCount)
}

func label(s *string) string {
	if s == nil || *s == "" {
		return UnknownLabel
	}
	return *s
}

func monthLabel(t time.Time) string {
	return t.Format(monthLayout)
}
