package staff

import (
	"context"
	"errors"
	"fmt"

	"zifa/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

const operatorColumns = `
	id, username, email, first_name, last_name, password,
	is_staff, is_active, is_superuser, last_login, date_joined`

func scanOperator(row pgx.Row) (*Operator, error) {
	var (
		o       Operator
		encoded string
	)
	err := row.Scan(
		&o.ID,
		&o.Username,
		&o.Email,
		&o.FirstName,
		&o.LastName,
		&encoded,
		&o.IsStaff,
		&o.IsActive,
		&o.IsSuperuser,
		&o.LastLogin,
		&o.DateJoined,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Password = NewPassword(encoded)
	return &o, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT` + operatorColumns + ` FROM auth_user WHERE id = $1`
	o, err := scanOperator(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("get operator %d: %w", id, err)
	}
	return o, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT` + operatorColumns + ` FROM auth_user WHERE username = $1`
	o, err := scanOperator(r.db.QueryRow(ctx, q, username))
	if err != nil {
		return nil, fmt.Errorf("get operator %q: %w", username, err)
	}
	return o, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE auth_user SET last_login = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
