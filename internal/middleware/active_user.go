package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/authctx"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

// ActiveUser rejects callers whose account was suspended after their access
// token was issued. It must run after JWTProtected.
func ActiveUser(ledger *repository.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := authctx.GetUID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: "unauthenticated", Message: "Unauthorized",
			})
		}

		user, err := ledger.FindUserByUID(c.UserContext(), uid)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: "unauthenticated", Message: "Account not found",
			})
		}
		if user.IsSuspended() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Code: "permission-denied", Message: "Account suspended",
			})
		}
		return c.Next()
	}
}
