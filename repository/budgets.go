package repository

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Budgets is the budget store. Every read is scoped to the owning principal
// so a budget outside the caller's ownership is indistinguishable from a
// missing one.
type Budgets interface {
	AllByOwner(ctx context.Context, userID int64) ([]*Budget, error)
	GetOwned(ctx context.Context, id, userID int64) (*Budget, error)
	GetOwnedWithExpenses(ctx context.Context, id, userID int64) (*Budget, error)
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, budget *Budget) error
}

type budgets struct {
	db *bun.DB
}

// NewBudgetsRepository builds the bun backed budget store.
func NewBudgetsRepository(db *bun.DB) Budgets {
	return &budgets{db: db}
}

func (r *budgets) AllByOwner(ctx context.Context, userID int64) ([]*Budget, error) {
	records := []*Budget{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *budgets) GetOwned(ctx context.Context, id, userID int64) (*Budget, error) {
	budget := &Budget{}
	err := r.db.NewSelect().
		Model(budget).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *budgets) GetOwnedWithExpenses(ctx context.Context, id, userID int64) (*Budget, error) {
	budget := &Budget{}
	err := r.db.NewSelect().
		Model(budget).
		Relation("Expenses").
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *budgets) Create(ctx context.Context, budget *Budget) (*Budget, error) {
	if _, err := r.db.NewInsert().Model(budget).Exec(ctx); err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *budgets) Update(ctx context.Context, budget *Budget) error {
	budget.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(budget).
		Column("name", "amount", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// Delete removes the budget and its expenses in one transaction.
func (r *budgets) Delete(ctx context.Context, budget *Budget) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Expense)(nil)).
			Where("budget_id = ?", budget.ID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model(budget).WherePK().Exec(ctx)
		return err
	})
}
