package repository

import (
	"context"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

func (l *Ledger) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return l.db.WithContext(ctx).Create(t).Error
}

// FindActiveRefreshToken returns the unrevoked token with the given hash.
func (l *Ledger) FindActiveRefreshToken(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := l.db.WithContext(ctx).Where("token_hash = ? AND revoked = ?", hash, false).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// RevokeRefreshToken reports whether an active token was revoked by this call.
func (l *Ledger) RevokeRefreshToken(ctx context.Context, hash string) (bool, error) {
	res := l.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", hash, false).
		Update("revoked", true)
	return res.RowsAffected == 1, res.Error
}

// RevokeUserRefreshTokens revokes every session of a user.
func (l *Ledger) RevokeUserRefreshTokens(ctx context.Context, uid string) error {
	return l.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_uid = ? AND revoked = ?", uid, false).
		Update("revoked", true).Error
}
