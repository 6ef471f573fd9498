package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the claim set carried by both access and refresh tokens.
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into a request identity.
func (c *TokenClaims) Identity() (identity.Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: bad userId claim", ErrInvalidToken)
	}
	return identity.Identity{UserID: id, Email: c.Email, Role: c.Role}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and verifies HS256 tokens. Access and refresh tokens
// are signed with distinct secrets so one can never stand in for the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.JWTAccessExpiry,
		refreshTTL:    cfg.JWTRefreshExpiry,
		now:           time.Now,
	}
}

func (s *TokenService) AccessSecret() []byte      { return s.accessSecret }
func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue signs a fresh access/refresh pair for id.
func (s *TokenService) Issue(id identity.Identity) (*TokenPair, error) {
	access, err := s.sign(id, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(id, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(id identity.Identity, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: id.UserID.String(),
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) VerifyAccess(token string) (*TokenClaims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *TokenService) VerifyRefresh(token string) (*TokenClaims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) verify(raw string, secret []byte) (*TokenClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
