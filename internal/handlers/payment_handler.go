package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/authctx"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/payments"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/services"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/settlement"
)

const (
	maxPollAttempts = 30
	maxPollInterval = 5 * time.Second
)

type PaymentHandler struct {
	engine  *settlement.Engine
	history *services.PaymentHistory
	cfg     *config.Config
}

func NewPaymentHandler(engine *settlement.Engine, history *services.PaymentHistory, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{engine: engine, history: history, cfg: cfg}
}

func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	pc, err := h.engine.CreatePendingCharge(c.UserContext(), req.ListingID, uid)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CheckoutResponse{
		PaymentID:   pc.Payment.ID.String(),
		Provider:    pc.Target.Provider,
		CheckoutURL: pc.Target.CheckoutURL,
		OrderID:     pc.Target.OrderID,
		PublicKey:   pc.Target.PublicKey,
		Amount:      pc.Payment.AmountMinor,
		Currency:    pc.Payment.Currency,
	})
}

func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	_, err = h.engine.VerifyCompletion(c.UserContext(), uid, payments.Proof{
		OrderRef:   req.OrderRef,
		PaymentRef: req.PaymentRef,
		Signature:  req.Signature,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.VerifyPaymentResponse{Success: true})
}

// Status polls the payment until it is paid or the attempt budget runs out.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	ref := c.Params("ref")

	attempts := c.QueryInt("attempts", h.cfg.StatusPollAttempts)
	if attempts < 1 || attempts > maxPollAttempts {
		return badRequest(c, "attempts must be between 1 and 30")
	}
	interval := h.cfg.StatusPollInterval
	if ms := c.QueryInt("interval_ms", -1); ms >= 0 {
		interval = time.Duration(ms) * time.Millisecond
	}
	if interval > maxPollInterval {
		interval = maxPollInterval
	}

	// Refuse to poll on behalf of someone who is not a party to an
	// existing payment.
	if p, err := h.engine.FindPayment(c.UserContext(), ref); err == nil && !p.IsParty(uid) {
		return forbiddenPayment(c)
	} else if err != nil && !apperr.Is(err, apperr.NotFound) {
		return respondError(c, err)
	}

	res, err := h.engine.PollStatus(c.UserContext(), ref, attempts, interval)
	if err != nil {
		return respondError(c, err)
	}
	if res.Payment != nil && !res.Payment.IsParty(uid) {
		return forbiddenPayment(c)
	}

	resp := dto.PaymentStatusResponse{
		Outcome:     string(res.Outcome),
		Attempts:    res.Attempts,
		ProviderRef: ref,
	}
	if res.Payment != nil {
		resp.Status = res.Payment.Status
		resp.PaidAt = res.Payment.PaidAt
	}
	return c.JSON(resp)
}

func forbiddenPayment(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Code: string(apperr.PermissionDenied), Message: "Not a party to this payment",
	})
}

func (h *PaymentHandler) Mine(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	ps, err := h.history.ForRenter(c.UserContext(), uid, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	if ps == nil {
		ps = []models.Payment{}
	}
	return c.JSON(fiber.Map{"payments": ps})
}
