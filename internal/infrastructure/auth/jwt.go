package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hassanjava2/bi-ledger/internal/domain"
)

// Claims represents the JWT claims issued by the ERP's identity service
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims to the caller identity.
func (c *Claims) Principal() domain.Principal {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	return domain.Principal{ID: id, Email: c.Email, Role: c.Role}
}

// JWTVerifier validates HS256 bearer tokens. Tokens are issued elsewhere.
type JWTVerifier struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWTVerifier creates a new JWT verifier
func NewJWTVerifier(secretKey string) *JWTVerifier {
	return &JWTVerifier{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// Verify verifies a JWT token and returns the claims
func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secretKey, nil
		},
		jwt.WithTimeFunc(v.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, claims.Role)
	}

	return claims, nil
}
