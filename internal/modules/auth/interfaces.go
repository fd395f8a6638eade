package auth

import (
	"context"

	"authservice/internal/domain"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// RefreshTokenRepositoryInterface — storage for refresh-token rows
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) (*domain.RefreshToken, error)
	DeleteByID(ctx context.Context, id int64) error
}

type tokenIssuer interface {
	GenerateAccessToken(userID int64, role string) (string, error)
	GenerateRefreshToken(userID int64, role string, tokenID int64) (string, error)
}
