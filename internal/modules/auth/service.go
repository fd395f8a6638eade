package auth

import (
	"context"
	"errors"
	"strings"

	"authservice/internal/domain"
	"authservice/internal/pkg/credentials"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service contains all business logic for registration and login
type Service struct {
	users  UserRepositoryInterface
	tokens RefreshTokenRepositoryInterface
	issuer tokenIssuer
}

// Session is the freshly signed token pair for one auth event.
type Session struct {
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepositoryInterface,
	tokens RefreshTokenRepositoryInterface,
	issuer tokenIssuer,
) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		issuer: issuer,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.TrimSpace(req.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := credentials.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  hashed,
		Role:      domain.RoleCustomer,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check is only a fast path; the unique index on email
		// is the source of truth. A racer losing check-then-create ends
		// up here and gets the same conflict.
		if isUniqueConstraintError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

// Login never distinguishes an unknown email from a wrong password, so
// the endpoint cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !credentials.Compare(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) Self(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// IssueSession signs the access token, persists one refresh-token row
// and signs the refresh token carrying that row's id. The steps are
// sequential, not transactional: a signing failure after the row was
// written leaves an orphan row behind, cleaned up with the expired ones.
func (s *Service) IssueSession(ctx context.Context, user *domain.User) (*Session, error) {
	accessToken, err := s.issuer.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	record, err := s.tokens.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issuer.GenerateRefreshToken(user.ID, string(user.Role), record.ID)
	if err != nil {
		return nil, err
	}

	return &Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
