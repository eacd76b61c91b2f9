package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
	ErrWrongUse     = errors.New("jwtx: token issued for another purpose")
)

// VerifyOptions captures the expectations a verifier enforces.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	Leeway time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Verifier checks HS256 tokens of a single class.
type Verifier struct {
	use    TokenUse
	key    []byte
	parser *jwt.Parser
}

// NewVerifier returns a Verifier for the given class.
func NewVerifier(keys Keys, use TokenUse, opts VerifyOptions) (*Verifier, error) {
	key := keys.forUse(use)
	if len(key) == 0 {
		return nil, errors.New("jwtx: no key for token use " + string(use))
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(use)),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Now != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(opts.Now))
	}

	return &Verifier{use: use, key: key, parser: jwt.NewParser(parserOpts...)}, nil
}

// VerifySession parses a session token. It fails for any other token class.
func (v *Verifier) VerifySession(tokenStr string) (*SessionClaims, error) {
	if v.use != UseSession {
		return nil, ErrWrongUse
	}
	claims := &SessionClaims{}
	if err := v.verify(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyInvite parses an invite token. It fails for any other token class.
func (v *Verifier) VerifyInvite(tokenStr string) (*InviteClaims, error) {
	if v.use != UseInvite {
		return nil, ErrWrongUse
	}
	claims := &InviteClaims{}
	if err := v.verify(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) verify(tokenStr string, claims jwt.Claims) error {
	token, err := v.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return classify(err)
	}
	if !token.Valid {
		return ErrInvalidClaim
	}
	return nil
}

// classify maps jwt library errors onto the package sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrWrongUse):
		return ErrWrongUse
	case errors.Is(err, ErrInvalidClaim):
		return ErrInvalidClaim
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudience
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
