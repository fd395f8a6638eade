package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenValidity bounds how long a stolen access token stays
	// usable; anything longer-lived goes through the refresh flow.
	AccessTokenValidity = time.Hour

	// RefreshTokenValidity is a fixed 365 days. Leap years are not
	// accounted for.
	RefreshTokenValidity = 365 * 24 * time.Hour
)

// Config is the key material the service is constructed with. Access
// tokens are signed with the RSA private key so other services can
// verify them with just the public half; refresh tokens use a shared
// secret because only this service ever verifies them.
type Config struct {
	PrivateKey    []byte // PEM-encoded RSA private key
	RefreshSecret string
	Issuer        string
}

type Service struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	refreshSecret []byte
	issuer        string
}

type Claims struct {
	Role string `json:"role"`
	jwtlib.RegisteredClaims
}

// UserID parses the subject claim back into the user's id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func New(cfg Config) (*Service, error) {
	key, err := jwtlib.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing RSA private key: %w", err)
	}

	return &Service{
		privateKey:    key,
		publicKey:     &key.PublicKey,
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
	}, nil
}

func (s *Service) GenerateAccessToken(userID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(AccessTokenValidity)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	return t.SignedString(s.privateKey)
}

// GenerateRefreshToken embeds tokenID, the id of the persisted
// refresh-token row, as the jti claim. Deleting that row revokes the
// token regardless of its remaining cryptographic validity.
func (s *Service) GenerateRefreshToken(userID int64, role string, tokenID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        strconv.FormatInt(tokenID, 10),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(RefreshTokenValidity)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return t.SignedString(s.refreshSecret)
}

func (s *Service) VerifyAccessToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.publicKey, nil
	}, jwtlib.WithIssuer(s.issuer), jwtlib.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
