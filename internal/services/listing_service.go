package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

const (
	defaultListingLimit = 20
	maxListingLimit     = 100
	recommendPool       = 200
	imageCleanupTimeout = 30 * time.Second
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("not the listing owner")
	ErrNoBlobStore     = errors.New("image storage not configured")
)

// BlobStore holds listing images.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, ref string) error
}

// Upload is an image attached to a new listing.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type ListingService struct {
	ledger  *repository.Ledger
	blobs   BlobStore
	filter  *ContentFilter
	cleanup sync.WaitGroup
	now     func() time.Time
}

// NewListingService builds the service. blobs may be nil when no image
// store is configured.
func NewListingService(ledger *repository.Ledger, blobs BlobStore, filter *ContentFilter) *ListingService {
	return &ListingService{ledger: ledger, blobs: blobs, filter: filter, now: time.Now}
}

func (s *ListingService) Create(ctx context.Context, ownerUID string, req *dto.CreateListingRequest, image *Upload) (*models.Listing, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" || req.Category == "" {
		return nil, apperr.New(apperr.InvalidArgument, "title and category are required")
	}
	if req.Price.IsNegative() {
		return nil, apperr.New(apperr.InvalidArgument, "price must not be negative")
	}
	if req.Type == "" {
		req.Type = models.ListingTypeSale
	}
	if !validListingType(req.Type) {
		return nil, apperr.New(apperr.InvalidArgument, "type must be one of "+strings.Join(models.ListingTypes, ", "))
	}
	for _, text := range []string{req.Title, req.Description} {
		if ok, reason := s.filter.Check(text); !ok {
			return nil, apperr.New(apperr.InvalidArgument, RejectionMessage(reason))
		}
	}

	listing := &models.Listing{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		Category:    req.Category,
		Hostel:      strings.TrimSpace(req.Hostel),
		Type:        req.Type,
		OwnerID:     ownerUID,
	}

	if image != nil {
		if s.blobs == nil {
			return nil, apperr.Wrap(apperr.FailedPrecondition, "Image uploads are not available", ErrNoBlobStore)
		}
		ref, err := s.blobs.Put(ctx, listing.ID.String()+"_"+image.Name, image.ContentType, image.Body)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "store image", err)
		}
		listing.ImageRef = ref
	}

	if err := s.ledger.CreateListing(ctx, listing); err != nil {
		if listing.ImageRef != "" {
			s.removeImage(listing.ImageRef)
		}
		return nil, apperr.Wrap(apperr.Internal, "create listing", err)
	}

	slog.Info("listing created", "action", "listing.create", "listing_id", listing.ID, "user_id", ownerUID)
	return listing, nil
}

func validListingType(t string) bool {
	for _, v := range models.ListingTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.ledger.FindListing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "Listing not found", ErrListingNotFound)
		}
		return nil, apperr.Wrap(apperr.Internal, "load listing", err)
	}
	return listing, nil
}

func (s *ListingService) List(ctx context.Context, f repository.ListingFilter) (*dto.ListingPage, error) {
	f.Limit = clampLimit(f.Limit, defaultListingLimit, maxListingLimit)

	listings, err := s.ledger.ListListings(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list listings", err)
	}

	page := &dto.ListingPage{Listings: listings}
	if len(listings) == f.Limit {
		next := listings[len(listings)-1].CreatedAt
		page.NextBefore = &next
	}
	return page, nil
}

// Delete removes a listing. Only its owner may delete it unless asAdmin is
// set. The image is removed in the background afterwards.
func (s *ListingService) Delete(ctx context.Context, id uuid.UUID, actorUID string, asAdmin bool) (*models.Listing, error) {
	if !asAdmin {
		listing, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if listing.OwnerID != actorUID {
			return nil, apperr.Wrap(apperr.PermissionDenied, "Only the owner can delete this listing", ErrNotOwner)
		}
	}

	deleted, err := s.ledger.DeleteListing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "Listing not found", ErrListingNotFound)
		}
		return nil, apperr.Wrap(apperr.Internal, "delete listing", err)
	}

	slog.Info("listing deleted", "action", "listing.delete", "listing_id", id, "user_id", actorUID)
	if deleted.ImageRef != "" {
		s.removeImage(deleted.ImageRef)
	}
	return deleted, nil
}

// removeImage deletes a blob without blocking the caller. Failures are
// logged only.
func (s *ListingService) removeImage(ref string) {
	if s.blobs == nil {
		return
	}
	s.cleanup.Add(1)
	go func() {
		defer s.cleanup.Done()
		ctx, cancel := context.WithTimeout(context.Background(), imageCleanupTimeout)
		defer cancel()
		if err := s.blobs.Delete(ctx, ref); err != nil {
			slog.Error("listing image cleanup failed", "action", "listing.image_cleanup", "image_ref", ref, "error", err)
		}
	}()
}

// WaitForCleanup blocks until background image deletions finish.
func (s *ListingService) WaitForCleanup() {
	s.cleanup.Wait()
}

func (s *ListingService) OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if listing.ImageRef == "" || s.blobs == nil {
		return nil, "", apperr.New(apperr.NotFound, "Listing has no image")
	}
	r, contentType, err := s.blobs.Open(ctx, listing.ImageRef)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.NotFound, "Image not found", err)
	}
	return r, contentType, nil
}

// RecordClick appends the listing's category to the viewer's history.
func (s *ListingService) RecordClick(ctx context.Context, uid string, id uuid.UUID) error {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user, err := s.ledger.FindUserByUID(ctx, uid)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "User not found", ErrUserNotFound)
	}
	user.RecordClick(listing.Category)
	if err := s.ledger.SaveClickedCategories(ctx, user); err != nil {
		return apperr.Wrap(apperr.Internal, "save clicks", err)
	}
	return nil
}

func (s *ListingService) Recommended(ctx context.Context, uid string, limit int) ([]models.Listing, error) {
	user, err := s.ledger.FindUserByUID(ctx, uid)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "User not found", ErrUserNotFound)
	}
	pool, err := s.ledger.ListListings(ctx, repository.ListingFilter{Limit: recommendPool})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list listings", err)
	}

	ranked := Recommend(pool, user.Hostel, user.ClickedCategories, s.now())
	limit = clampLimit(limit, defaultListingLimit, maxListingLimit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// ParseListingID converts a path parameter into a listing id.
func ParseListingID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.InvalidArgument, fmt.Sprintf("invalid listing id %q", raw))
	}
	return id, nil
}
