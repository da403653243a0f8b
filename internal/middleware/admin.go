package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/authctx"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

// AdminRequired admits a caller that presents the operator token, whose
// email is listed in ADMIN_EMAILS, or whose stored role is admin.
func AdminRequired(ledger *repository.Ledger, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(strings.ToLower(cfg.AdminEmails))

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			authctx.MarkAdmin(c)
			return c.Next()
		}

		uid, err := authctx.GetUID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: "unauthenticated", Message: "Unauthorized",
			})
		}

		if contains(adminEmails, strings.ToLower(authctx.GetEmail(c))) {
			authctx.MarkAdmin(c)
			return c.Next()
		}

		if user, err := ledger.FindUserByUID(c.UserContext(), uid); err == nil && user.Role == models.RoleAdmin {
			authctx.MarkAdmin(c)
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Code: "permission-denied", Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
