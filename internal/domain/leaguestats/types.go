package leaguestats

import (
	"context"
	"errors"
	"time"
)

var ErrUnknownEntity = errors.New("unknown entity kind")

// Table names of the league application. The dashboard only ever reads them.
const (
	TeamsTable      = "teams_team"
	PlayersTable    = "players_player"
	VenuesTable     = "venues_venue"
	MatchesTable    = "matches_match"
	DisciplineTable = "discipline_discipline"
	InjuriesTable   = "injuries_injury"
	TransfersTable  = "transfers_transfer"
	StandingsTable  = "standings_standing"
)

const DefaultTopN = 10

type Entity string

const (
	EntityTeam     Entity = "team"
	EntityPlayer   Entity = "player"
	EntityMatch    Entity = "match"
	EntityInjury   Entity = "injury"
	EntityTransfer Entity = "transfer"
)

// CountedEntities is the order in which the dashboard reports totals.
var CountedEntities = []Entity{EntityTeam, EntityPlayer, EntityMatch, EntityInjury, EntityTransfer}

func (e Entity) table() (string, error) {
	switch e {
	case EntityTeam:
		return TeamsTable, nil
	case EntityPlayer:
		return PlayersTable, nil
	case EntityMatch:
		return MatchesTable, nil
	case EntityInjury:
		return InjuriesTable, nil
	case EntityTransfer:
		return TransfersTable, nil
	default:
		return "", ErrUnknownEntity
	}
}

// GroupRow is one (label, aggregate) pair. Label is nil when the grouped relation is missing.
type GroupRow struct {
	Label *string `json:"label"`
	Value int64   `json:"value"`
}

type StandingRow struct {
	Team   *string `json:"team"`
	Points int64   `json:"points"`
}

type CardMonthRow struct {
	Month time.Time `json:"month"`
	Type  *string   `json:"type"`
	Count int64     `json:"count"`
}

type MonthRow struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

// Store exposes the typed read queries the dashboard needs.
type Store interface {
	Count(ctx context.Context, entity Entity) (int64, error)
	GoalsPerTeam(ctx context.Context, limit int) ([]GroupRow, error)
	CardsPerMonth(ctx context.Context) ([]CardMonthRow, error)
	TopStandings(ctx context.Context, limit int) ([]StandingRow, error)
	TransfersPerMonth(ctx context.Context) ([]MonthRow, error)
	InjuriesPerTeam(ctx context.Context, limit int) ([]GroupRow, error)
	MatchesPerVenue(ctx context.Context, limit int) ([]GroupRow, error)
}

// League entities as stored by the league application. Nullable relations are pointers.

type Team struct {
	ID   int64
	Name string
}

type Player struct {
	ID     int64
	TeamID *int64
}

type Venue struct {
	ID   int64
	Name string
}

type Match struct {
	ID         int64
	HomeTeamID *int64
	VenueID    *int64
	ScoreHome  int64
	ScoreAway  int64
}

type Discipline struct {
	ID   int64
	Date *time.Time
	Type string
}

type Injury struct {
	ID       int64
	PlayerID *int64
}

type Transfer struct {
	ID   int64
	Date *time.Time
}

type Standing struct {
	ID     int64
	TeamID *int64
	Points int64
}
