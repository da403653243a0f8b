package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/testutil"
)

type memBlobs struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newMemBlobs() *memBlobs { return &memBlobs{files: map[string][]byte{}} }

func (m *memBlobs) Put(_ context.Context, name, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = b
	return name, nil
}

func (m *memBlobs) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[ref]
	if !ok {
		return nil, "", errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(b)), "image/png", nil
}

func (m *memBlobs) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTAccessExpiry:    15 * time.Minute,
		JWTRefreshExpiry:   time.Hour,
		AllowedEmailDomain: "lpu.in",
	}
}

func TestRegisterEnforcesDomain(t *testing.T) {
	ledger := repository.NewLedger(testutil.NewDB(t))
	auth := NewAuthService(ledger, testConfig())
	ctx := context.Background()

	_, err := auth.Register(ctx, &dto.RegisterRequest{Email: "someone@gmail.com", Password: "longenough"})
	if !errors.Is(err, ErrEmailDomain) || !apperr.Is(err, apperr.InvalidArgument) {
		t.Fatalf("outside domain err = %v", err)
	}

	resp, err := auth.Register(ctx, &dto.RegisterRequest{Email: " Student@LPU.in ", Password: "longenough", Hostel: "BH-3"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Email != "student@lpu.in" || resp.User.UID == "" || resp.AccessToken == "" {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := auth.Register(ctx, &dto.RegisterRequest{Email: "student@lpu.in", Password: "longenough"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate err = %v", err)
	}
}

func TestLoginAndRefreshRotation(t *testing.T) {
	ledger := repository.NewLedger(testutil.NewDB(t))
	auth := NewAuthService(ledger, testConfig())
	ctx := context.Background()

	reg, err := auth.Register(ctx, &dto.RegisterRequest{Email: "a@lpu.in", Password: "password1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: "a@lpu.in", Password: "wrong-pass"}); !apperr.Is(err, apperr.Unauthenticated) {
		t.Errorf("bad password err = %v", err)
	}

	rotated, err := auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == reg.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if _, err := auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: reg.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reused token err = %v", err)
	}

	if err := ledger.SetUserStatus(ctx, reg.User.UID, models.UserStatusSuspended); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: "a@lpu.in", Password: "password1"}); !errors.Is(err, ErrUserSuspended) {
		t.Errorf("suspended login err = %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := repository.NewLedger(db)
	testutil.SeedUser(t, db, "u1", func(u *models.User) { u.Phone = "+91111" })
	auth := NewAuthService(ledger, testConfig())

	off := false
	resp, err := auth.UpdateProfile(context.Background(), "u1", &dto.UpdateProfileRequest{EmailNotifications: &off})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.EmailNotifications || resp.Phone != "+91111" || resp.Hostel != "BH-1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListingDeleteCleansUpImage(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := repository.NewLedger(db)
	blobs := newMemBlobs()
	svc := NewListingService(ledger, blobs, NewContentFilter())
	ctx := context.Background()

	listing, err := svc.Create(ctx, "owner", &dto.CreateListingRequest{
		Title:    "Study table",
		Price:    decimal.RequireFromString("750"),
		Category: "Furniture",
		Type:     models.ListingTypeSale,
	}, &Upload{Name: "table.png", ContentType: "image/png", Body: bytes.NewReader([]byte("png"))})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if listing.ImageRef == "" {
		t.Fatal("image ref not recorded")
	}

	if _, err := svc.Delete(ctx, listing.ID, "intruder", false); !apperr.Is(err, apperr.PermissionDenied) {
		t.Errorf("non-owner delete err = %v", err)
	}
	if _, err := svc.Delete(ctx, listing.ID, "owner", false); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	svc.WaitForCleanup()

	if len(blobs.deleted) != 1 || blobs.deleted[0] != listing.ImageRef {
		t.Errorf("deleted blobs = %v", blobs.deleted)
	}
}

func TestListingCreateValidation(t *testing.T) {
	svc := NewListingService(repository.NewLedger(testutil.NewDB(t)), nil, NewContentFilter())
	ctx := context.Background()

	tests := []struct {
		name  string
		req   dto.CreateListingRequest
		image *Upload
		want  apperr.Code
	}{
		{"missing title", dto.CreateListingRequest{Category: "Books"}, nil, apperr.InvalidArgument},
		{"negative price", dto.CreateListingRequest{Title: "x", Category: "Books", Price: decimal.NewFromInt(-1)}, nil, apperr.InvalidArgument},
		{"bad type", dto.CreateListingRequest{Title: "x", Category: "Books", Type: "Barter"}, nil, apperr.InvalidArgument},
		{"link in description", dto.CreateListingRequest{Title: "x", Category: "Books", Description: "see https://evil.example"}, nil, apperr.InvalidArgument},
		{"image without store", dto.CreateListingRequest{Title: "x", Category: "Books"}, &Upload{Name: "a.png", Body: bytes.NewReader(nil)}, apperr.FailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "owner", &tt.req, tt.image)
			if got := apperr.CodeOf(err); got != tt.want {
				t.Errorf("code = %q, want %q (%v)", got, tt.want, err)
			}
		})
	}
}

func TestRecordClickAndRecommend(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := repository.NewLedger(db)
	svc := NewListingService(ledger, nil, NewContentFilter())
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	testutil.SeedUser(t, db, "viewer", func(u *models.User) { u.Hostel = "GH-2" })

	old := now.Add(-72 * time.Hour)
	book := testutil.SeedListing(t, db, "o", "5", func(l *models.Listing) { l.Category = "Books"; l.Hostel = "BH-9"; l.CreatedAt = old })
	testutil.SeedListing(t, db, "o", "5", func(l *models.Listing) { l.Category = "Sports"; l.Hostel = "BH-9"; l.CreatedAt = old })
	local := testutil.SeedListing(t, db, "o", "5", func(l *models.Listing) { l.Category = "Sports"; l.Hostel = "GH-2"; l.CreatedAt = old })

	for i := 0; i < 2; i++ {
		if err := svc.RecordClick(ctx, "viewer", book.ID); err != nil {
			t.Fatalf("RecordClick: %v", err)
		}
	}

	got, err := svc.Recommended(ctx, "viewer", 10)
	if err != nil {
		t.Fatalf("Recommended: %v", err)
	}
	if len(got) != 3 || got[0].ID != local.ID || got[1].ID != book.ID {
		t.Errorf("order = %v, %v, %v", got[0].Category, got[1].Category, got[2].Category)
	}
}
