package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/cashtrackr/api/repository"
)

const expenseKey = "expense"

// errExpenseNotFound covers missing expenses and expenses that exist under a
// different budget; the two are indistinguishable on the wire.
var errExpenseNotFound = goerrors.New("expense not found", goerrors.CategoryNotFound).
	WithTextCode("expense_not_found").
	WithCode(goerrors.CodeNotFound)

// ExpenseController exposes expense CRUD nested under a resolved budget.
type ExpenseController struct {
	Repo repository.Manager
}

type expensePayload struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func (p expensePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Amount, validation.Required, validation.Min(0.01)),
	)
}

// ResolveExpense loads the expense named in the path, scoped to the context
// budget. Runs after ResolveBudget, so ownership is already established.
func (ctrl *ExpenseController) ResolveExpense(c *fiber.Ctx) error {
	id, err := pathID(c, "expenseId")
	if err != nil {
		return err
	}

	budget, err := contextBudget(c)
	if err != nil {
		return err
	}

	expense, err := ctrl.Repo.Expenses().GetInBudget(c.UserContext(), id, budget.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return errExpenseNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve expense")
	}

	c.Locals(expenseKey, expense)

	return c.Next()
}

func contextExpense(c *fiber.Ctx) (*repository.Expense, error) {
	expense, ok := c.Locals(expenseKey).(*repository.Expense)
	if !ok {
		return nil, errExpenseNotFound
	}
	return expense, nil
}

func (ctrl *ExpenseController) Create(c *fiber.Ctx) error {
	budget, err := contextBudget(c)
	if err != nil {
		return err
	}

	var payload expensePayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	expense := &repository.Expense{
		Name:     payload.Name,
		Amount:   payload.Amount,
		BudgetID: budget.ID,
	}

	expense, err = ctrl.Repo.Expenses().Create(c.UserContext(), expense)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create expense")
	}

	return respondData(c, fiber.StatusCreated, expense)
}

func (ctrl *ExpenseController) GetByID(c *fiber.Ctx) error {
	expense, err := contextExpense(c)
	if err != nil {
		return err
	}

	return respondData(c, fiber.StatusOK, expense)
}

func (ctrl *ExpenseController) Update(c *fiber.Ctx) error {
	expense, err := contextExpense(c)
	if err != nil {
		return err
	}

	var payload expensePayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	expense.Name = payload.Name
	expense.Amount = payload.Amount

	if err := ctrl.Repo.Expenses().Update(c.UserContext(), expense); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update expense")
	}

	return respondMessage(c, fiber.StatusOK, "Expense updated")
}

func (ctrl *ExpenseController) Delete(c *fiber.Ctx) error {
	expense, err := contextExpense(c)
	if err != nil {
		return err
	}

	if err := ctrl.Repo.Expenses().Delete(c.UserContext(), expense); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete expense")
	}

	return respondMessage(c, fiber.StatusOK, "Expense deleted")
}
