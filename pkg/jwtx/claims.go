package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. These can be overridden per deployment.
const (
	// DefaultSessionTTL is the default lifetime for session tokens.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultInviteTTL is the default lifetime for invite tokens. Invitees
	// usually act on the mail within a few days.
	DefaultInviteTTL = 7 * 24 * time.Hour
)

// TokenUse discriminates the token classes. It is part of the signed
// payload and doubles as the audience, so a token minted for one purpose
// never validates for the other.
type TokenUse string

const (
	UseSession TokenUse = "session"
	UseInvite  TokenUse = "invite"
)

// SessionClaims bind a bearer to a user's email. They carry no organisation
// scope.
type SessionClaims struct {
	jwt.RegisteredClaims

	Use   TokenUse `json:"use"`
	Email string   `json:"email"`
}

// InviteClaims authorize one address to join one organisation with a role flag.
type InviteClaims struct {
	jwt.RegisteredClaims

	Use            TokenUse `json:"use"`
	Email          string   `json:"email"`
	Manager        bool     `json:"manager"`
	OrganisationID string   `json:"org_id"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(email, issuer string, ttl time.Duration, now time.Time) SessionClaims {
	return SessionClaims{
		RegisteredClaims: registered(email, issuer, UseSession, ttl, now),
		Use:              UseSession,
		Email:            email,
	}
}

// NewInviteClaims builds minimally-correct invite claims.
func NewInviteClaims(
	email string,
	manager bool,
	organisationID string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) InviteClaims {
	return InviteClaims{
		RegisteredClaims: registered(email, issuer, UseInvite, ttl, now),
		Use:              UseInvite,
		Email:            email,
		Manager:          manager,
		OrganisationID:   organisationID,
	}
}

func registered(subject, issuer string, use TokenUse, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{string(use)},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// Validate is called by the jwt parser after the registered claims checks.
func (c SessionClaims) Validate() error {
	if c.Use != UseSession {
		return ErrWrongUse
	}
	if c.Email == "" {
		return ErrInvalidClaim
	}
	return nil
}

// Validate is called by the jwt parser after the registered claims checks.
func (c InviteClaims) Validate() error {
	if c.Use != UseInvite {
		return ErrWrongUse
	}
	if c.Email == "" || c.OrganisationID == "" {
		return ErrInvalidClaim
	}
	return nil
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
