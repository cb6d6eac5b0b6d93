package storage

import (
	"context"

	"zifa/internal/domain/leaguestats"
	"zifa/internal/domain/staff"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool        *pgxpool.Pool
	LeagueStats leaguestats.Store
	Staff       staff.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:        db,
		LeagueStats: leaguestats.NewRepository(db),
		Staff:       staff.NewRepository(db),
	}
}

// WithReportTx runs fn against one read-only, repeatable-read snapshot so every dashboard
// series sees the same data. Without a pool (in-memory stores) fn gets LeagueStats directly.
func (c *Container) WithReportTx(ctx context.Context, fn func(s leaguestats.Store) error) error {
	if c.pool == nil {
		return fn(c.LeagueStats)
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	if err := fn(leaguestats.NewRepository(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Ping checks the database behind the container. In-memory containers are always healthy.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Ping(ctx)
}
