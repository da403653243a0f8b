// Package repository is the GORM-backed ledger store for listings, users,
// payments, reports and chat messages.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// DB exposes the underlying handle for callers that run their own queries.
func (l *Ledger) DB() *gorm.DB {
	return l.db
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
