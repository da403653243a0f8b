package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

func (l *Ledger) CreateReport(ctx context.Context, r *models.Report) error {
	return l.db.WithContext(ctx).Create(r).Error
}

func (l *Ledger) FindReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var r models.Report
	if err := l.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (l *Ledger) ListReports(ctx context.Context, limit, offset int) ([]models.Report, int64, error) {
	var (
		reports []models.Report
		total   int64
	)
	if err := l.db.WithContext(ctx).Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := l.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
