package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/authctx"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), uid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListReports is the admin view of filed reports, newest first.
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	reports, total, err := h.moderationService.ListReports(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReportListResponse{
		Reports: reports,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

func (h *ModerationHandler) DeleteListing(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.moderationService.DeleteReportedListing(c.UserContext(), authctx.UID(c), reportID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdminActionResponse{
		Success:  true,
		ReportID: report.ID.String(),
		Action:   "delete-listing",
		Target:   report.ListingID.String(),
	})
}

func (h *ModerationHandler) SuspendUser(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.moderationService.SuspendReportedUser(c.UserContext(), authctx.UID(c), reportID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdminActionResponse{
		Success:  true,
		ReportID: report.ID.String(),
		Action:   "suspend-user",
		Target:   report.ReporterID,
	})
}
