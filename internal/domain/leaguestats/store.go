package leaguestats

import (
	"context"
	"fmt"

	"zifa/internal/infra/dbx"
)

type Repository struct {
	db dbx.Querier
}

// NewRepository accepts the pool or a transaction.
func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

func (r *Repository) Count(ctx context.Context, entity Entity) (int64, error) {
	table, err := entity.table()
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", entity, err)
	}

	// table comes from a closed set of constants
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", entity, err)
	}
	return n, nil
}

func (r *Repository) GoalsPerTeam(ctx context.Context, limit int) ([]GroupRow, error) {
	const q = `
		SELECT t.name, COALESCE(SUM(m.score_home), 0) AS goals
		FROM ` + MatchesTable + ` m
		LEFT JOIN ` + TeamsTable + ` t ON t.id = m.home_team_id
		GROUP BY t.name
		ORDER BY goals DESC, t.name ASC NULLS LAST
		LIMIT $1`

	rows, err := r.groupRows(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("goals per team: %w", err)
	}
	return rows, nil
}

func (r *Repository) InjuriesPerTeam(ctx context.Context, limit int) ([]GroupRow, error) {
	const q = `
		SELECT t.name, COUNT(i.id) AS injuries
		FROM ` + InjuriesTable + ` i
		LEFT JOIN ` + PlayersTable + ` p ON p.id = i.player_id
		LEFT JOIN ` + TeamsTable + ` t ON t.id = p.team_id
		GROUP BY t.name
		ORDER BY injuries DESC, t.name ASC NULLS LAST
		LIMIT $1`

	rows, err := r.groupRows(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("injuries per team: %w", err)
	}
	return rows, nil
}

func (r *Repository) MatchesPerVenue(ctx context.Context, limit int) ([]GroupRow, error) {
	const q = `
		SELECT v.name, COUNT(m.id) AS matches
		FROM ` + MatchesTable + ` m
		LEFT JOIN ` + VenuesTable + ` v ON v.id = m.venue_id
		GROUP BY v.name
		ORDER BY matches DESC, v.name ASC NULLS LAST
		LIMIT $1`

	rows, err := r.groupRows(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("matches per venue: %w", err)
	}
	return rows, nil
}

func (r *Repository) groupRows(ctx context.Context, q string, limit int) ([]GroupRow, error) {
	if limit <= 0 {
		return []GroupRow{}, nil
	}

	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GroupRow{}
	for rows.Next() {
		var g GroupRow
		if err := rows.Scan(&g.Label, &g.Value); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// TopStandings reads standings rows directly; one row per team is assumed, not checked.
func (r *Repository) TopStandings(ctx context.Context, limit int) ([]StandingRow, error) {
	if limit <= 0 {
		return []StandingRow{}, nil
	}

	const q = `
		SELECT t.name, s.points
		FROM ` + StandingsTable + ` s
		LEFT JOIN ` + TeamsTable + ` t ON t.id = s.team_id
		ORDER BY s.points DESC, t.name ASC NULLS LAST
		LIMIT $1`

	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("top standings: %w", err)
	}
	defer rows.Close()

	out := []StandingRow{}
	for rows.Next() {
		var s StandingRow
		if err := rows.Scan(&s.Team, &s.Points); err != nil {
			return nil, fmt.Errorf("top standings: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top standings: %w", err)
	}
	return out, nil
}

func (r *Repository) CardsPerMonth(ctx context.Context) ([]CardMonthRow, error) {
	const q = `
		SELECT date_trunc('month', d.date)::date AS month, d.type, COUNT(d.id)
		FROM ` + DisciplineTable + ` d
		WHERE d.date IS NOT NULL
		GROUP BY month, d.type
		ORDER BY month ASC, d.type ASC NULLS LAST`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("cards per month: %w", err)
	}
	defer rows.Close()

	out := []CardMonthRow{}
	for rows.Next() {
		var c CardMonthRow
		if err := rows.Scan(&c.Month, &c.Type, &c.Count); err != nil {
			return nil, fmt.Errorf("cards per month: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cards per month: %w", err)
	}
	return out, nil
}

func (r *Repository) TransfersPerMonth(ctx context.Context) ([]MonthRow, error) {
	const q = `
		SELECT date_trunc('month', t.date)::date AS month, COUNT(t.id)
		FROM ` + TransfersTable + ` t
		WHERE t.date IS NOT NULL
		GROUP BY month
		ORDER BY month ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("transfers per month: %w", err)
	}
	defer rows.Close()

	out := []MonthRow{}
	for rows.Next() {
		var m MonthRow
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("transfers per month: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transfers per month: %w", err)
	}
	return out, nil
}
