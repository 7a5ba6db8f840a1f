package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT token claims. The id, username and role claims are the
// ones the browser client decodes.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func NewJWTTokenGenerator(secret, issuer string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = internal.DefaultTokenDuration
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		Issuer: issuer,
		TTL:    ttl,
	}
}

// GenerateToken signs an HS256 token for u and reports when it expires.
func (j *JWTTokenGenerator) GenerateToken(u *user.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.TTL)

	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken verifies signature, algorithm, expiry and issuer, then checks
// that the identity claims are usable.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired.WithCause(err)
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	if !token.Valid || claims.UserID <= 0 || !user.Role(claims.Role).IsValid() {
		return nil, internal.ErrInvalidToken
	}

	return claims, nil
}
