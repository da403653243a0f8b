package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/authctx"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := h.chat.Send(c.UserContext(), uid, id, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// List returns messages newer than ?after=, given as RFC 3339 or unix
// milliseconds.
func (h *ChatHandler) List(c *fiber.Ctx) error {
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	after, err := queryTime(c, "after")
	if err != nil {
		return badRequest(c, "after must be a timestamp")
	}

	msgs, err := h.chat.Since(c.UserContext(), id, after)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageList{Messages: msgs})
}
