package repository

import (
	"context"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

func (l *Ledger) CreateUser(ctx context.Context, u *models.User) error {
	return l.db.WithContext(ctx).Create(u).Error
}

// FindUserByUID resolves a user by identity subject, the key payments and
// listings store.
func (l *Ledger) FindUserByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := l.db.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (l *Ledger) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := l.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UpdateUserProfile writes the user-editable contact fields.
func (l *Ledger) UpdateUserProfile(ctx context.Context, u *models.User) error {
	return l.db.WithContext(ctx).
		Model(&models.User{}).
		Where("uid = ?", u.UID).
		Updates(map[string]interface{}{
			"phone":               u.Phone,
			"hostel":              u.Hostel,
			"email_notifications": u.EmailNotifications,
		}).Error
}

func (l *Ledger) SaveClickedCategories(ctx context.Context, u *models.User) error {
	return l.db.WithContext(ctx).
		Model(&models.User{}).
		Where("uid = ?", u.UID).
		Update("clicked_categories", u.ClickedCategories).Error
}

func (l *Ledger) SetUserStatus(ctx context.Context, uid, status string) error {
	res := l.db.WithContext(ctx).
		Model(&models.User{}).
		Where("uid = ?", uid).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
