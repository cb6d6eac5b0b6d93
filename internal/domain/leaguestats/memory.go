package leaguestats

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Dataset is a snapshot of the league tables held in memory.
type Dataset struct {
	Teams      []Team
	Players    []Player
	Venues     []Venue
	Matches    []Match
	Discipline []Discipline
	Injuries   []Injury
	Transfers  []Transfer
	Standings  []Standing
}

// MemoryStore answers the dashboard queries from a Dataset using the in-memory grouping helpers.
type MemoryStore struct {
	data       Dataset
	teamNames  map[int64]string
	venueNames map[int64]string
	playerTeam map[int64]*int64
}

func NewMemoryStore(data Dataset) *MemoryStore {
	s := &MemoryStore{
		data:       data,
		teamNames:  make(map[int64]string, len(data.Teams)),
		venueNames: make(map[int64]string, len(data.Venues)),
		playerTeam: make(map[int64]*int64, len(data.Players)),
	}
	for _, t := range data.Teams {
		s.teamNames[t.ID] = t.Name
	}
	for _, v := range data.Venues {
		s.venueNames[v.ID] = v.Name
	}
	for _, p := range data.Players {
		s.playerTeam[p.ID] = p.TeamID
	}
	return s
}

func (s *MemoryStore) teamName(id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := s.teamNames[*id]
	if !ok {
		return nil
	}
	return &name
}

func (s *MemoryStore) venueName(id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := s.venueNames[*id]
	if !ok {
		return nil
	}
	return &name
}

func (s *MemoryStore) Count(ctx context.Context, entity Entity) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch entity {
	case EntityTeam:
		return int64(len(s.data.Teams)), nil
	case EntityPlayer:
		return int64(len(s.data.Players)), nil
	case EntityMatch:
		return int64(len(s.data.Matches)), nil
	case EntityInjury:
		return int64(len(s.data.Injuries)), nil
	case EntityTransfer:
		return int64(len(s.data.Transfers)), nil
	default:
		return 0, fmt.Errorf("count %q: %w", entity, ErrUnknownEntity)
	}
}

func (s *MemoryStore) GoalsPerTeam(ctx context.Context, limit int) ([]GroupRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return TopNGrouped(s.data.Matches,
		func(m Match) *string { return s.teamName(m.HomeTeamID) },
		func(m Match) int64 { return m.ScoreHome },
		Sum, limit), nil
}

func (s *MemoryStore) InjuriesPerTeam(ctx context.Context, limit int) ([]GroupRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return TopNGrouped(s.data.Injuries,
		func(i Injury) *string {
			if i.PlayerID == nil {
				return nil
			}
			return s.teamName(s.playerTeam[*i.PlayerID])
		},
		nil, Count, limit), nil
}

func (s *MemoryStore) MatchesPerVenue(ctx context.Context, limit int) ([]GroupRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return TopNGrouped(s.data.Matches,
		func(m Match) *string { return s.venueName(m.VenueID) },
		nil, Count, limit), nil
}

func (s *MemoryStore) TopStandings(ctx context.Context, limit int) ([]StandingRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []StandingRow{}, nil
	}

	out := make([]StandingRow, 0, len(s.data.Standings))
	for _, st := range s.data.Standings {
		out = append(out, StandingRow{Team: s.teamName(st.TeamID), Points: st.Points})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return LabelLess(out[i].Team, out[j].Team)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CardsPerMonth(ctx context.Context) ([]CardMonthRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buckets := MonthlyBreakdown(s.data.Discipline,
		func(d Discipline) *time.Time { return d.Date },
		func(d Discipline) *string { return &d.Type })

	out := make([]CardMonthRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, CardMonthRow{Month: b.Month, Type: b.Key, Count: b.Count})
	}
	return out, nil
}

func (s *MemoryStore) TransfersPerMonth(ctx context.Context) ([]MonthRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buckets := MonthlyBreakdown(s.data.Transfers,
		func(t Transfer) *time.Time { return t.Date },
		nil)

	out := make([]MonthRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, MonthRow{Month: b.Month, Count: b.Count})
	}
	return out, nil
}
