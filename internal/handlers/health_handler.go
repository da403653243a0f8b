package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/database"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	blobs    Pinger
	provider string
}

// NewHealthHandler reports on the database, the optional blob store and
// the configured payment provider.
func NewHealthHandler(blobs Pinger, provider string) *HealthHandler {
	return &HealthHandler{blobs: blobs, provider: provider}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	blobStatus := "disabled"
	if h.blobs != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		blobStatus = "ok"
		if err := h.blobs.Ping(ctx); err != nil {
			blobStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Blob:      blobStatus,
		Provider:  h.provider,
	})
}
