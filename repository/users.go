package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// IsRecordNotFound reports whether err is a missing-row error.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Users is the principal store.
type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetProjection loads the minimal principal projection (id, name, email)
	// attached to authenticated requests.
	GetProjection(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByToken(ctx context.Context, token string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	db *bun.DB
}

// NewUsersRepository builds the bun backed principal store.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// NormalizeEmail lowercases and trims an email so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *users) GetByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *users) GetProjection(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Column("id", "name", "email").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	user := &User{}
	err := tx.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *users) GetByToken(ctx context.Context, token string) (*User, error) {
	user := &User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *users) Create(ctx context.Context, user *User) (*User, error) {
	return r.CreateTx(ctx, r.db, user)
}

func (r *users) CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	user.Email = NormalizeEmail(user.Email)
	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *users) Update(ctx context.Context, user *User) error {
	return r.UpdateTx(ctx, r.db, user)
}

func (r *users) UpdateTx(ctx context.Context, tx bun.IDB, user *User) error {
	user.UpdatedAt = time.Now()
	_, err := tx.NewUpdate().
		Model(user).
		Column("name", "email", "password", "confirmed", "token", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
