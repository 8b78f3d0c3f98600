package server

import (
	"errors"
	"log/slog"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// faultMessage is the only thing callers see when an unclassified fault
// occurs. Details stay in the server log.
const faultMessage = "an unexpected server error occurred"

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"ok":      true,
		"message": message,
	})
}

func respondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"ok":   true,
		"data": data,
	})
}

// fieldErrors flattens ozzo's map of violations into a stable, field-sorted
// list for the wire.
func fieldErrors(verr validation.Errors) []fieldError {
	fields := make([]string, 0, len(verr))
	for field := range verr {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]fieldError, 0, len(fields))
	for _, field := range fields {
		out = append(out, fieldError{Field: field, Message: verr[field].Error()})
	}
	return out
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// newErrorHandler is the single place errors become HTTP responses. Rich
// errors carry their own status code; anything unclassified becomes a 500
// with a fixed message.
func newErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr validation.Errors
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":      false,
				"message": "validation failed",
				"errors":  fieldErrors(verr),
			})
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			status := int(richErr.Code)
			if status < fiber.StatusContinue {
				status = statusFromCategory(richErr.Category)
			}

			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					"method", c.Method(),
					"path", c.Path(),
					"category", richErr.Category,
					"error", richErr.Error(),
				)
				return c.Status(status).JSON(fiber.Map{
					"ok":      false,
					"message": faultMessage,
				})
			}

			return c.Status(status).JSON(fiber.Map{
				"ok":      false,
				"message": richErr.Message,
			})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{
				"ok":      false,
				"message": ferr.Message,
			})
		}

		logger.Error("unclassified request failure",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": faultMessage,
		})
	}
}
