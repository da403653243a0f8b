package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
)

// respondError renders a service error with its stable code. Internal and
// upstream failures are logged and their detail withheld.
func respondError(c *fiber.Ctx, err error) error {
	code := apperr.CodeOf(err)
	if code == apperr.Internal || code == apperr.Upstream {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err,
		)
	}
	return c.Status(apperr.HTTPStatus(code)).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    apperr.WireCode(code),
		Message: apperr.PublicMessage(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Code: string(apperr.InvalidArgument), Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Code: string(apperr.Unauthenticated), Message: "Unauthorized",
	})
}

// ErrorHandler is the app-wide fiber error handler. Only client errors keep
// their message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		status = e.Code
		message = e.Message
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    wireCodeForStatus(status),
		Message: message,
	})
}

func wireCodeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
		return string(apperr.InvalidArgument)
	case fiber.StatusUnauthorized:
		return string(apperr.Unauthenticated)
	case fiber.StatusForbidden:
		return string(apperr.PermissionDenied)
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return string(apperr.NotFound)
	case fiber.StatusTooManyRequests:
		return "resource-exhausted"
	default:
		return string(apperr.Internal)
	}
}
