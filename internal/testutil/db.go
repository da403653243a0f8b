// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/database"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a per-test temp directory.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// SQLite allows a single writer; serialising connections avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user with the given uid and returns it.
func SeedUser(t *testing.T, db *gorm.DB, uid string, mutate ...func(*models.User)) *models.User {
	t.Helper()

	u := &models.User{
		UID:                uid,
		Email:              uid + "@lpu.in",
		Password:           "x",
		Hostel:             "BH-1",
		EmailNotifications: true,
		Role:               models.RoleUser,
		Status:             models.UserStatusActive,
	}
	for _, m := range mutate {
		m(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedListing inserts a listing owned by ownerUID.
func SeedListing(t *testing.T, db *gorm.DB, ownerUID string, price string, mutate ...func(*models.Listing)) *models.Listing {
	t.Helper()

	l := &models.Listing{
		ID:       uuid.New(),
		Title:    "Desk lamp",
		Price:    decimal.RequireFromString(price),
		Category: "Electronics",
		Hostel:   "BH-1",
		Type:     models.ListingTypeRent,
		OwnerID:  ownerUID,
	}
	for _, m := range mutate {
		m(l)
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return l
}
