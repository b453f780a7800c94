package domain

import (
	"strings"
	"time"
	"unicode"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IdentityType is the Hotel/Corporate side an account picks once.
type IdentityType string

const (
	IdentityUnset     IdentityType = ""
	IdentityHotel     IdentityType = "Hotel"
	IdentityCorporate IdentityType = "Corporate"
)

// ParseIdentityType accepts "Hotel" or "Corporate" in any letter case.
func ParseIdentityType(s string) (IdentityType, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(IdentityHotel)):
		return IdentityHotel, nil
	case strings.EqualFold(s, string(IdentityCorporate)):
		return IdentityCorporate, nil
	}
	return IdentityUnset, Errorf(ErrValidation, "identityType must be Hotel or Corporate")
}

type Account struct {
	ID               int64        `json:"id"`
	Email            string       `json:"email"`
	PasswordHash     *string      `json:"-"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Phone            *string      `json:"phone,omitempty"`
	GoogleSubject    *string      `json:"-"`
	Role             Role         `json:"role"`
	IdentityType     IdentityType `json:"identityType"`
	ProfileCompleted bool         `json:"profileCompleted"`
	Active           bool         `json:"isActive"`
	CreatedAt        time.Time    `json:"createdAt"`
	LastLoginAt      *time.Time   `json:"lastLoginAt,omitempty"`
}

// Claims is the authenticated principal decoded from a bearer token.
type Claims struct {
	AccountID    int64
	Email        string
	Role         Role
	IdentityType IdentityType
}

func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// ClaimsFor derives token claims from the stored account.
func ClaimsFor(a Account) Claims {
	return Claims{AccountID: a.ID, Email: a.Email, Role: a.Role, IdentityType: a.IdentityType}
}

// Session is a freshly issued credential. Every operation that changes the
// identity type or profile state returns one so the caller replaces its token.
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"user"`
}

// ExternalIdentity is the verified identity asserted by an OAuth provider.
type ExternalIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
}

// ValidatePassword enforces the password policy: 8 to 72 bytes with at least
// one lower-case letter, one upper-case letter and one digit.
func ValidatePassword(pw string) error {
	if len(pw) < 8 || len(pw) > 72 {
		return Errorf(ErrValidation, "password must be between 8 and 72 characters")
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return Errorf(ErrValidation, "password must contain upper-case, lower-case and numeric characters")
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
