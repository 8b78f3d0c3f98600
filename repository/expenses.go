package repository

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Expenses is the expense store. Reads are scoped to the owning budget; an
// expense outside that budget is indistinguishable from a missing one.
type Expenses interface {
	GetInBudget(ctx context.Context, id, budgetID int64) (*Expense, error)
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, expense *Expense) error
}

type expenses struct {
	db *bun.DB
}

// NewExpensesRepository builds the bun backed expense store.
func NewExpensesRepository(db *bun.DB) Expenses {
	return &expenses{db: db}
}

func (r *expenses) GetInBudget(ctx context.Context, id, budgetID int64) (*Expense, error) {
	expense := &Expense{}
	err := r.db.NewSelect().
		Model(expense).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.budget_id = ?", budgetID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *expenses) Create(ctx context.Context, expense *Expense) (*Expense, error) {
	if _, err := r.db.NewInsert().Model(expense).Exec(ctx); err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *expenses) Update(ctx context.Context, expense *Expense) error {
	expense.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(expense).
		Column("name", "amount", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (r *expenses) Delete(ctx context.Context, expense *Expense) error {
	_, err := r.db.NewDelete().Model(expense).WherePK().Exec(ctx)
	return err
}
