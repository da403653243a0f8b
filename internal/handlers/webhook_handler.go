package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/settlement"
)

type WebhookHandler struct {
	engine *settlement.Engine
}

func NewWebhookHandler(engine *settlement.Engine) *WebhookHandler {
	return &WebhookHandler{engine: engine}
}

// HandleStripe authenticates the raw event body against the
// Stripe-Signature header before anything is read from it.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	res, err := h.engine.HandleProviderEvent(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		slog.Warn("webhook rejected", "action", "payment.webhook", "error", err)
		return respondError(c, err)
	}

	if res.Transitioned {
		slog.Info("webhook settled payment", "action", "payment.webhook", "payment_id", res.Payment.ID, "provider_ref", res.Payment.ProviderRef())
	}
	return c.JSON(dto.WebhookAck{Received: true})
}
