package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fixed lifetime of issued tokens.
const DefaultTokenTTL = time.Hour

// Internal verification failures. These are distinguishable in-process
// (for logging and tests) but must never be surfaced individually to
// clients; handlers respond with the uniform ErrInvalidToken message.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token expired")
	ErrBadSignature   = errors.New("invalid token signature")

	// ErrInvalidToken is the single client-visible auth failure.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the decoded payload of a verified bearer token.
type Claims struct {
	SubjectID string `json:"sub_id"`
	IsAdmin   bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens. The signing
// secret is loaded once at startup and never rotated at runtime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service signing with secret. A ttl
// <= 0 falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed token for the given subject. The token
// carries the subject id, the admin flag, and issued-at/expiry bounds.
func (s *TokenService) Issue(subjectID string, isAdmin bool) (string, error) {
	now := s.now()
	claims := &Claims{
		SubjectID: subjectID,
		IsAdmin:   isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry, returning the decoded
// claims. Failures map to ErrMalformedToken, ErrExpiredToken or
// ErrBadSignature.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrBadSignature
	}
	return claims, nil
}
