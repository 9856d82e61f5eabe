package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload. The subject is the caller's email.
type Claims struct {
	SubjectID *int64 `json:"id,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TTL returns the default lifetime of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken signs a token for the subject using the default lifetime.
func (tm *TokenManager) GenerateToken(email string, subjectID int64, role domain.Role) (string, time.Time, error) {
	return tm.GenerateTokenWithTTL(email, subjectID, role, tm.ttl)
}

// GenerateTokenWithTTL signs a token that expires ttl from now.
func (tm *TokenManager) GenerateTokenWithTTL(email string, subjectID int64, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		SubjectID: &subjectID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies signature and expiry and returns the identity claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*domain.TokenClaims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, domain.ErrMissingClaim
		default:
			return nil, domain.ErrMalformedToken
		}
	}

	if claims.Subject == "" || claims.SubjectID == nil || claims.Role == "" {
		return nil, domain.ErrMissingClaim
	}

	return &domain.TokenClaims{
		Email:     claims.Subject,
		SubjectID: *claims.SubjectID,
		Role:      domain.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
