package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stayhub/internal/domain"
)

type tokenClaims struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	IdentityType string `json:"identityType"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

var errNoSecret = domain.Errorf(domain.ErrForbidden, "token signing is not configured")

func (t *Tokens) Issue(c domain.Claims) (string, error) {
	if len(t.secret) == 0 {
		return "", errNoSecret
	}
	now := t.now()
	claims := tokenClaims{
		Email:        c.Email,
		Role:         string(c.Role),
		IdentityType: string(c.IdentityType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(c.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Verify(token string) (domain.Claims, error) {
	if len(t.secret) == 0 {
		return domain.Claims{}, errNoSecret
	}
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return domain.Claims{}, domain.Errorf(domain.ErrUnauthorized, "invalid or expired token")
	}
	id, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Claims{}, domain.Errorf(domain.ErrUnauthorized, "invalid or expired token")
	}
	return domain.Claims{
		AccountID:    id,
		Email:        tc.Email,
		Role:         domain.Role(tc.Role),
		IdentityType: domain.IdentityType(tc.IdentityType),
	}, nil
}
