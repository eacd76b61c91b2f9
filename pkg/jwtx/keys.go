package jwtx

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest master secret accepted by DeriveKeys.
const MinSecretLength = 32

var ErrWeakSecret = errors.New("jwtx: signing secret must be at least 32 bytes")

// Keys holds one HMAC key per token class. Keys are immutable once derived
// and safe to share between goroutines.
type Keys struct {
	session []byte
	invite  []byte
}

// DeriveKeys expands a process secret into independent session and invite
// keys with HKDF-SHA256.
func DeriveKeys(secret []byte) (Keys, error) {
	if len(secret) < MinSecretLength {
		return Keys{}, ErrWeakSecret
	}

	session, err := expand(secret, UseSession)
	if err != nil {
		return Keys{}, err
	}
	invite, err := expand(secret, UseInvite)
	if err != nil {
		return Keys{}, err
	}

	return Keys{session: session, invite: invite}, nil
}

func (k Keys) forUse(use TokenUse) []byte {
	switch use {
	case UseSession:
		return k.session
	case UseInvite:
		return k.invite
	default:
		return nil
	}
}

func expand(secret []byte, use TokenUse) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte("orgauth/jwt/"+string(use)))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
