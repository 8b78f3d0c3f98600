package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// Manager exposes all repositories
type Manager interface {
	Users() Users
	Budgets() Budgets
	Expenses() Expenses
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

type mngr struct {
	db       *bun.DB
	users    Users
	budgets  Budgets
	expenses Expenses
}

// NewManager wires the three repositories over a shared bun handle.
func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		budgets:  NewBudgetsRepository(db),
		expenses: NewExpensesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.budgets == nil {
		return errors.New("repository budgets should be initialized")
	}

	if m.expenses == nil {
		return errors.New("repository expenses should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Budgets() Budgets {
	return m.budgets
}

func (m mngr) Expenses() Expenses {
	return m.expenses
}
