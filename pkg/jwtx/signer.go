package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints HS256 tokens for a single token class.
type Signer struct {
	use TokenUse
	key []byte
}

// NewSigner returns a Signer for the given class. It fails when keys were
// not produced by DeriveKeys.
func NewSigner(keys Keys, use TokenUse) (*Signer, error) {
	key := keys.forUse(use)
	if len(key) == 0 {
		return nil, errors.New("jwtx: no key for token use " + string(use))
	}
	return &Signer{use: use, key: key}, nil
}

// Use reports the token class this signer mints.
func (s *Signer) Use() TokenUse { return s.use }

// Sign turns claims into a signed JWT string.
func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["typ"] = "JWT"
	return t.SignedString(s.key)
}
