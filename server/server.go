// Package server is the HTTP surface of the service: routes, request
// payloads, ownership guards and the response envelope.
package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/cashtrackr/api/auth"
	"github.com/cashtrackr/api/config"
	"github.com/cashtrackr/api/middleware/jwtware"
	"github.com/cashtrackr/api/middleware/ratelimit"
	"github.com/cashtrackr/api/repository"
)

const (
	claimsKey = "claims"
	userKey   = "user"
)

var errInvalidBody = goerrors.New("invalid request body", goerrors.CategoryBadInput).
	WithTextCode("invalid_body").
	WithCode(goerrors.CodeBadRequest)

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	repo    repository.Manager
	tokens  *auth.TokenService
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

func New(cfg *config.Config, repo repository.Manager, tokens *auth.TokenService, mail auth.MailDispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "cashtrackr",
		ErrorHandler: newErrorHandler(logger),
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		repo:    repo,
		tokens:  tokens,
		limiter: ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow),
		logger:  logger,
	}

	s.registerRoutes(mail)

	return s
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes(mail auth.MailDispatcher) {
	authCtrl := &AuthController{Repo: s.repo, Tokens: s.tokens, Mail: mail}
	budgetCtrl := &BudgetController{Repo: s.repo}
	expenseCtrl := &ExpenseController{Repo: s.repo}

	throttled := s.limiter.Middleware(nil, nil)
	session := s.requireSession()
	principal := s.resolvePrincipal()

	api := s.app.Group("/api")

	ag := api.Group("/auth")
	ag.Post("/create-account", throttled, authCtrl.CreateAccount)
	ag.Post("/confirm-account", throttled, authCtrl.ConfirmAccount)
	ag.Post("/login", throttled, authCtrl.Login)
	ag.Post("/forgot-password", throttled, authCtrl.ForgotPassword)
	ag.Post("/validate-token", throttled, authCtrl.ValidateToken)
	ag.Post("/reset-password/:token", throttled, authCtrl.ResetPassword)

	ag.Get("/user", session, principal, authCtrl.User)
	ag.Post("/update-password", session, principal, authCtrl.UpdatePassword)
	ag.Post("/check-password", session, principal, authCtrl.CheckPassword)

	budgets := api.Group("/budgets", session, principal)
	budgets.Get("/", budgetCtrl.List)
	budgets.Post("/", budgetCtrl.Create)

	budget := budgets.Group("/:budgetId", budgetCtrl.ResolveBudget)
	budget.Get("/", budgetCtrl.GetByID)
	budget.Put("/", budgetCtrl.Update)
	budget.Delete("/", budgetCtrl.Delete)

	expenses := budget.Group("/expenses")
	expenses.Post("/", expenseCtrl.Create)

	expense := expenses.Group("/:expenseId", expenseCtrl.ResolveExpense)
	expense.Get("/", expenseCtrl.GetByID)
	expense.Put("/", expenseCtrl.Update)
	expense.Delete("/", expenseCtrl.Delete)
}

// tokenValidator adapts the auth token service to the jwtware contract.
type tokenValidator struct {
	tokens *auth.TokenService
}

func (v tokenValidator) Validate(raw string) (jwtware.AuthClaims, error) {
	return v.tokens.Validate(raw)
}

// requireSession rejects requests without a valid bearer token and stores the
// validated claims in the request locals.
func (s *Server) requireSession() fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey:     claimsKey,
		TokenValidator: tokenValidator{tokens: s.tokens},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			// extraction failed: no header, wrong scheme, empty token
			return auth.ErrUnauthorized
		},
	})
}

// resolvePrincipal turns validated claims into a live principal projection.
// A token whose subject no longer resolves to a row is as good as no token.
func (s *Server) resolvePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(claimsKey).(jwtware.AuthClaims)
		if !ok {
			return auth.ErrUnauthorized
		}

		id, err := claims.UserID()
		if err != nil {
			return err
		}

		user, err := s.repo.Users().GetProjection(c.UserContext(), id)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return auth.ErrUnauthorized
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve principal")
		}

		c.Locals(userKey, user)

		return c.Next()
	}
}

// currentUser retrieves the principal stored by resolvePrincipal.
func currentUser(c *fiber.Ctx) (*repository.User, error) {
	user, ok := c.Locals(userKey).(*repository.User)
	if !ok {
		return nil, auth.ErrUnauthorized
	}
	return user, nil
}
