package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/authctx"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/services"
)

type ListingHandler struct {
	listings *services.ListingService
	history  *services.PaymentHistory
}

func NewListingHandler(listings *services.ListingService, history *services.PaymentHistory) *ListingHandler {
	return &ListingHandler{listings: listings, history: history}
}

// Create accepts JSON, or multipart form fields with an optional "image" file.
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}

	var (
		req   dto.CreateListingRequest
		image *services.Upload
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req = dto.CreateListingRequest{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Category:    c.FormValue("category"),
			Hostel:      c.FormValue("hostel"),
			Type:        c.FormValue("type"),
		}
		if raw := c.FormValue("price"); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return badRequest(c, "price must be a number")
			}
			req.Price = price
		}

		if fh, err := c.FormFile("image"); err == nil {
			contentType := fh.Header.Get(fiber.HeaderContentType)
			if !strings.HasPrefix(contentType, "image/") {
				return badRequest(c, "image must be an image file")
			}
			f, err := fh.Open()
			if err != nil {
				return badRequest(c, "could not read image")
			}
			defer f.Close()
			image = &services.Upload{Name: fh.Filename, ContentType: contentType, Body: f}
		}
	} else if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	listing, err := h.listings.Create(c.UserContext(), uid, &req, image)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	f := repository.ListingFilter{
		Category: c.Query("category"),
		Hostel:   c.Query("hostel"),
		Type:     c.Query("type"),
		OwnerID:  c.Query("owner"),
		Limit:    c.QueryInt("limit", 0),
	}
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return badRequest(c, "before must be an RFC 3339 timestamp")
		}
		f.Before = before
	}

	page, err := h.listings.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	listing, err := h.listings.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}

func (h *ListingHandler) Image(c *fiber.Ctx) error {
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	r, contentType, err := h.listings.OpenImage(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	// fasthttp closes the stream once it has been written.
	return c.SendStream(r)
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.listings.Delete(c.UserContext(), id, uid, false); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted"})
}

func (h *ListingHandler) Click(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.listings.RecordClick(c.UserContext(), uid, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ListingHandler) Recommended(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	listings, err := h.listings.Recommended(c.UserContext(), uid, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ListingPage{Listings: listings})
}

func (h *ListingHandler) Payments(c *fiber.Ctx) error {
	uid, err := authctx.GetUID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseListingID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	payments, err := h.history.ForListing(c.UserContext(), uid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}

func queryTime(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
