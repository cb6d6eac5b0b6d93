package dashboard

import (
	"context"
	"sort"
	"time"

	"zifa/internal/domain/leaguestats"

	"go.uber.org/zap"
)

// Builder assembles a Report from a leaguestats.Store. It holds no per-request state.
type Builder struct {
	topN   int
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewBuilder(topN int, logger *zap.SugaredLogger) *Builder {
	if topN <= 0 {
		topN = leaguestats.DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Builder{topN: topN, logger: logger, now: time.Now}
}

func (b *Builder) TopN() int { return b.topN }

// WithTopN returns a builder that keeps n rows per ranked series. b is left untouched.
func (b *Builder) WithTopN(n int) *Builder {
	if n <= 0 || n == b.topN {
		return b
	}
	c := *b
	c.topN = n
	return &c
}

// Build runs every dashboard query against s, one after another.
func (b *Builder) Build(ctx context.Context, s leaguestats.Store) (*Report, error) {
	r := &Report{GeneratedAt: b.now().UTC()}

	counts := map[leaguestats.Entity]*int64{
		leaguestats.EntityTeam:     &r.TeamCount,
		leaguestats.EntityPlayer:   &r.PlayerCount,
		leaguestats.EntityMatch:    &r.MatchCount,
		leaguestats.EntityInjury:   &r.InjuryCount,
		leaguestats.EntityTransfer: &r.TransferCount,
	}
	for _, e := range leaguestats.CountedEntities {
		n, err := s.Count(ctx, e)
		if err != nil {
			return nil, err
		}
		*counts[e] = n
	}

	goals, err := s.GoalsPerTeam(ctx, b.topN)
	if err != nil {
		return nil, err
	}
	r.GoalsPerTeam = b.groupSeries(goals)

	cards, err := s.CardsPerMonth(ctx)
	if err != nil {
		return nil, err
	}
	r.CardsPerMonth = cardMonths(cards)

	standings, err := s.TopStandings(ctx, b.topN)
	if err != nil {
		return nil, err
	}
	r.Standings = b.standingsSeries(standings)

	transfers, err := s.TransfersPerMonth(ctx)
	if err != nil {
		return nil, err
	}
	r.TransfersPerMonth = monthSeries(transfers)

	injuries, err := s.InjuriesPerTeam(ctx, b.topN)
	if err != nil {
		return nil, err
	}
	r.InjuriesPerTeam = b.groupSeries(injuries)

	venues, err := s.MatchesPerVenue(ctx, b.topN)
	if err != nil {
		return nil, err
	}
	r.MatchesPerVenue = b.groupSeries(venues)

	return r, nil
}

func (b *Builder) groupSeries(rows []leaguestats.GroupRow) Series {
	rows = leaguestats.TopN(rows, b.topN)

	s := newSeries(len(rows))
	for _, g := range rows {
		s.add(label(g.Label), g.Value)
	}
	return s
}

func (b *Builder) standingsSeries(rows []leaguestats.StandingRow) Series {
	groups := make([]leaguestats.GroupRow, 0, len(rows))
	for _, st := range rows {
		groups = append(groups, leaguestats.GroupRow{Label: st.Team, Value: st.Points})
	}
	s := b.groupSeries(groups)

	seen := make(map[string]int, s.Len())
	for _, l := range s.Labels {
		seen[l]++
	}
	for team, n := range seen {
		if n > 1 {
			b.logger.Warnw("standings list a team more than once", "team", team, "rows", n)
		}
	}
	return s
}

func monthSeries(rows []leaguestats.MonthRow) Series {
	sorted := make([]leaguestats.MonthRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month.Before(sorted[j].Month) })

	s := newSeries(len(sorted))
	for _, m := range sorted {
		s.add(monthLabel(m.Month), m.Count)
	}
	return s
}

func cardMonths(rows []leaguestats.CardMonthRow) []CardMonth {
	sorted := make([]leaguestats.CardMonthRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Month.Equal(sorted[j].Month) {
			return sorted[i].Month.Before(sorted[j].Month)
		}
		return leaguestats.LabelLess(sorted[i].Type, sorted[j].Type)
	})

	out := make([]CardMonth, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, CardMonth{Month: c.Month, Type: label(c.Type), Count: c.Count})
	}
	return out
}
