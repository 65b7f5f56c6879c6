package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Token validation failures share one response body on purpose: the
// caller must not be able to tell a revoked token from an expired one.
var tokenErrors = []error{
	ErrMissingToken,
	ErrMalformedToken,
	ErrExpiredToken,
	ErrRevokedToken,
	ErrWrongTokenType,
}

func isTokenError(err error) bool {
	for _, te := range tokenErrors {
		if errors.Is(err, te) {
			return true
		}
	}
	return false
}

// Handler is the fiber app-level error handler mapping service errors
// to status codes and machine-readable reason codes.
func Handler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
			"code":    "http_error",
		})
	}

	switch {
	case isTokenError(err):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "invalid token",
			"code":    "invalid_token",
		})
	case errors.Is(err, ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "invalid_credentials",
		})
	case errors.Is(err, ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "permission_denied",
		})
	case errors.Is(err, ErrLoginTaken),
		errors.Is(err, ErrRoleExists),
		errors.Is(err, ErrRoleAlreadyAssigned):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "conflict",
		})
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRoleNotFound),
		errors.Is(err, ErrAssignmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "not_found",
		})
	case errors.Is(err, ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "Too Many Requests",
			"code":    "rate_limited",
		})
	case errors.Is(err, ErrNoRoute):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "no_route",
		})
	case errors.Is(err, ErrUpstreamUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "upstream_unavailable",
		})
	case errors.Is(err, ErrSigning):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "signing_error",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
		"code":    "internal",
	})
}
