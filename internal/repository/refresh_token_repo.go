package repository

import (
	"context"
	"time"

	"authservice/internal/domain"
	"authservice/internal/pkg/token"

	"gorm.io/gorm"
)

// RefreshTokenRepository provides DB access for refresh-token rows.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create persists a new row for the user, expiring a fixed window from
// now. The assigned id becomes the jti of the signed refresh token.
func (r *RefreshTokenRepository) Create(ctx context.Context, user *domain.User) (*domain.RefreshToken, error) {
	t := &domain.RefreshToken{
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(token.RefreshTokenValidity),
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteByID removes the row with that id. Deleting an id that does not
// exist is not an error.
func (r *RefreshTokenRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, id).Error
}

// DeleteExpired purges rows past their expiry and reports how many went.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}
