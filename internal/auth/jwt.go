package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes access tokens from refresh tokens. It is stored in the
// subject claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// ErrWrongKind is returned when a valid token of the other kind is presented.
var ErrWrongKind = errors.New("wrong token kind")

// Claims represents the JWT claims.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Kind returns the token kind.
func (c *Claims) Kind() Kind {
	return Kind(c.Subject)
}

// Lifetimes holds the validity period of each token kind.
type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
}

// DefaultLifetimes returns one week for access and 30 days for refresh tokens.
func DefaultLifetimes() Lifetimes {
	return Lifetimes{Access: 7 * 24 * time.Hour, Refresh: 30 * 24 * time.Hour}
}

func (l Lifetimes) of(kind Kind) time.Duration {
	if kind == KindRefresh {
		return l.Refresh
	}
	return l.Access
}

// Pair is an access token and the refresh token that renews it.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateToken creates a new JWT of the given kind with a unique JTI.
func GenerateToken(secret string, kind Kind, expiry time.Duration, userID int64, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(kind),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// GeneratePair creates an access and a refresh token for a user.
func GeneratePair(secret string, lt Lifetimes, userID int64, username, role string) (*Pair, error) {
	access, err := GenerateToken(secret, KindAccess, lt.of(KindAccess), userID, username, role)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateToken(secret, KindRefresh, lt.of(KindRefresh), userID, username, role)
	if err != nil {
		return nil, err
	}
	return &Pair{Access: access, Refresh: refresh}, nil
}

// ValidateToken parses and validates a JWT of the expected kind, returning
// the claims.
func ValidateToken(secret, tokenStr string, kind Kind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Kind() != kind {
		return nil, ErrWrongKind
	}

	return claims, nil
}
