package server

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/cashtrackr/api/repository"
)

const budgetKey = "budget"

var errInvalidID = goerrors.New("invalid resource id", goerrors.CategoryBadInput).
	WithTextCode("invalid_id").
	WithCode(goerrors.CodeBadRequest)

// errBudgetNotFound covers both the genuinely missing budget and the one
// owned by somebody else. The two cases must stay indistinguishable.
var errBudgetNotFound = goerrors.New("budget not found", goerrors.CategoryNotFound).
	WithTextCode("budget_not_found").
	WithCode(goerrors.CodeNotFound)

// pathID parses a positive integer path parameter.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// BudgetController exposes budget CRUD, always scoped to the authenticated
// principal.
type BudgetController struct {
	Repo repository.Manager
}

type budgetPayload struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func (p budgetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Amount, validation.Required, validation.Min(0.01)),
	)
}

// ResolveBudget loads the budget named in the path, scoped to the requester.
// A budget that exists but belongs to someone else resolves exactly like one
// that does not exist.
func (ctrl *BudgetController) ResolveBudget(c *fiber.Ctx) error {
	id, err := pathID(c, "budgetId")
	if err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	budget, err := ctrl.Repo.Budgets().GetOwned(c.UserContext(), id, user.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return errBudgetNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve budget")
	}

	c.Locals(budgetKey, budget)

	return c.Next()
}

func contextBudget(c *fiber.Ctx) (*repository.Budget, error) {
	budget, ok := c.Locals(budgetKey).(*repository.Budget)
	if !ok {
		return nil, errBudgetNotFound
	}
	return budget, nil
}

func (ctrl *BudgetController) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	budgets, err := ctrl.Repo.Budgets().AllByOwner(c.UserContext(), user.ID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list budgets")
	}

	return respondData(c, fiber.StatusOK, budgets)
}

func (ctrl *BudgetController) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload budgetPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	budget := &repository.Budget{
		Name:   payload.Name,
		Amount: payload.Amount,
		UserID: user.ID,
	}

	budget, err = ctrl.Repo.Budgets().Create(c.UserContext(), budget)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create budget")
	}

	return respondData(c, fiber.StatusCreated, budget)
}

// GetByID returns the resolved budget with its expenses included.
func (ctrl *BudgetController) GetByID(c *fiber.Ctx) error {
	budget, err := contextBudget(c)
	if err != nil {
		return err
	}

	loaded, err := ctrl.Repo.Budgets().GetOwnedWithExpenses(c.UserContext(), budget.ID, budget.UserID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return errBudgetNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load budget")
	}

	return respondData(c, fiber.StatusOK, loaded)
}

func (ctrl *BudgetController) Update(c *fiber.Ctx) error {
	budget, err := contextBudget(c)
	if err != nil {
		return err
	}

	var payload budgetPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	budget.Name = payload.Name
	budget.Amount = payload.Amount

	if err := ctrl.Repo.Budgets().Update(c.UserContext(), budget); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update budget")
	}

	return respondMessage(c, fiber.StatusOK, "Budget updated")
}

func (ctrl *BudgetController) Delete(c *fiber.Ctx) error {
	budget, err := contextBudget(c)
	if err != nil {
		return err
	}

	if err := ctrl.Repo.Budgets().Delete(c.UserContext(), budget); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete budget")
	}

	return respondMessage(c, fiber.StatusOK, "Budget deleted")
}
