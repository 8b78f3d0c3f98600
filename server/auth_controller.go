package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/cashtrackr/api/auth"
	"github.com/cashtrackr/api/repository"
)

// AuthController exposes the account lifecycle over HTTP.
type AuthController struct {
	Repo   repository.Manager
	Tokens *auth.TokenService
	Mail   auth.MailDispatcher
}

type createAccountPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p createAccountPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 0)),
	)
}

func (ctrl *AuthController) CreateAccount(c *fiber.Ctx) error {
	var payload createAccountPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.RegisterHandler{Repo: ctrl.Repo, Mail: ctrl.Mail}
	if err := handler.Execute(c.UserContext(), auth.RegisterMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusCreated, "Account created, check your email to confirm it")
}

type tokenPayload struct {
	Token string `json:"token"`
}

func (p tokenPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required, is.Digit),
	)
}

func (ctrl *AuthController) ConfirmAccount(c *fiber.Ctx) error {
	var payload tokenPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.ConfirmAccountHandler{Repo: ctrl.Repo}
	if err := handler.Execute(c.UserContext(), auth.ConfirmAccountMessage{Code: payload.Token}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusOK, "Account confirmed")
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var payload loginPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.LoginHandler{Repo: ctrl.Repo, Tokens: ctrl.Tokens}
	token, err := handler.Execute(c.UserContext(), auth.LoginMessage{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":    true,
		"token": token,
	})
}

type forgotPasswordPayload struct {
	Email string `json:"email"`
}

func (p forgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

func (ctrl *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var payload forgotPasswordPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.ForgotPasswordHandler{Repo: ctrl.Repo, Mail: ctrl.Mail}
	if err := handler.Execute(c.UserContext(), auth.ForgotPasswordMessage{Email: payload.Email}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusOK, "Check your email for reset instructions")
}

func (ctrl *AuthController) ValidateToken(c *fiber.Ctx) error {
	var payload tokenPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.ValidateResetCodeHandler{Repo: ctrl.Repo}
	if err := handler.Execute(c.UserContext(), auth.ValidateResetCodeMessage{Code: payload.Token}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusOK, "Token is valid")
}

type resetPasswordPayload struct {
	Password string `json:"password"`
}

func (p resetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required, validation.Length(8, 0)),
	)
}

func (ctrl *AuthController) ResetPassword(c *fiber.Ctx) error {
	var payload resetPasswordPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.ResetPasswordHandler{Repo: ctrl.Repo}
	if err := handler.Execute(c.UserContext(), auth.ResetPasswordMessage{
		Code:     c.Params("token"),
		Password: payload.Password,
	}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusOK, "Password updated")
}

// User returns the authenticated principal projection.
func (ctrl *AuthController) User(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	return respondData(c, fiber.StatusOK, user)
}

type updatePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
}

func (p updatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.CurrentPassword, validation.Required),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 0)),
	)
}

func (ctrl *AuthController) UpdatePassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload updatePasswordPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.ChangePasswordHandler{Repo: ctrl.Repo}
	if err := handler.Execute(c.UserContext(), auth.ChangePasswordMessage{
		UserID:          user.ID,
		CurrentPassword: payload.CurrentPassword,
		NewPassword:     payload.Password,
	}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusOK, "Password updated")
}

type checkPasswordPayload struct {
	Password string `json:"password"`
}

func (p checkPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required),
	)
}

// CheckPassword re-verifies the current credential; clients call it before
// destructive operations like deleting a budget.
func (ctrl *AuthController) CheckPassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var payload checkPasswordPayload
	if err := c.BodyParser(&payload); err != nil {
		return errInvalidBody
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	handler := &auth.CheckPasswordHandler{Repo: ctrl.Repo}
	if err := handler.Execute(c.UserContext(), auth.CheckPasswordMessage{
		UserID:   user.ID,
		Password: payload.Password,
	}); err != nil {
		return err
	}

	return respondMessage(c, fiber.StatusOK, "Password is correct")
}
