package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/logger"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/verification"
)

// PhoneVerificationFailed is the only message shown for a rejected code.
const PhoneVerificationFailed = "Your security code is wrong, expired or this phone is verified before."

// ErrorHandler renders every error returned by a handler as
// {"success": false, "error": ...}. Validation errors also carry their
// field map under "errors".
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   verr.Error(),
				"errors":  verr.Fields,
			})
		}

		status, message := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", logger.RequestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "Not found."
	case errors.Is(err, verification.ErrVerificationFailed):
		return fiber.StatusNotAcceptable, PhoneVerificationFailed
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Unable to log in with provided credentials."
	case errors.Is(err, services.ErrAccountDisabled):
		return fiber.StatusForbidden, "User account is disabled."
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "You do not have permission to perform this action."
	case errors.Is(err, services.ErrEmailNotVerified):
		return fiber.StatusBadRequest, "E-mail is not verified."
	case errors.Is(err, services.ErrPhoneNotVerified):
		return fiber.StatusBadRequest, "Phone number is not verified."
	case errors.Is(err, services.ErrAccountNotRegistered):
		return fiber.StatusNotFound, "Phone number is not registered."
	default:
		return fiber.StatusInternalServerError, "Internal server error."
	}
}
