package staff

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("operator not found")
	QueryTimeoutDuration = time.Second * 5
)

const (
	RoleSuperuser = "superuser"
	RoleStaff     = "staff"
	RoleUser      = "user"
)

// Operator is an account of the league application's admin (the auth_user table).
type Operator struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Password    Password   `json:"-"`
	IsStaff     bool       `json:"is_staff"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	DateJoined  time.Time  `json:"date_joined"`
}

// Role is the highest role the operator holds.
func (o *Operator) Role() string {
	switch {
	case o.IsSuperuser:
		return RoleSuperuser
	case o.IsStaff:
		return RoleStaff
	default:
		return RoleUser
	}
}

// CanViewAdmin reports whether the operator may open admin pages.
func (o *Operator) CanViewAdmin() bool {
	return o.IsActive && (o.IsStaff || o.IsSuperuser)
}

func (o *Operator) DisplayName() string {
	if o.FirstName != "" || o.LastName != "" {
		switch {
		case o.LastName == "":
			return o.FirstName
		case o.FirstName == "":
			return o.LastName
		default:
			return o.FirstName + " " + o.LastName
		}
	}
	return o.Username
}

type Store interface {
	GetByID(ctx context.Context, id int64) (*Operator, error)
	GetByUsername(ctx context.Context, username string) (*Operator, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}
