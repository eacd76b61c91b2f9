package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testParams keeps the suite fast; production uses DefaultParams.
var testParams = Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1}

func newTestHasher() *Hasher {
	return NewHasher(testParams, "test-pepper")
}

func TestHash(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)

			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "", parts[0])
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Equal(t, "m=1024,t=1,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := newTestHasher()
	password := "samepassword"

	hash1, err := h.Hash(password)
	require.NoError(t, err)
	hash2, err := h.Hash(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	for _, hash := range []string{hash1, hash2} {
		ok, err := h.Verify(password, hash)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	h := newTestHasher()

	for _, password := range []string{"password123", "", "пароль🔒密码", strings.Repeat("x", 500)} {
		hash, err := h.Hash(password)
		require.NoError(t, err)

		ok, err := h.Verify(password, hash)
		require.NoError(t, err)
		require.True(t, ok, "password %q should verify", password)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h := newTestHasher()
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		t.Run(wrong[:min(len(wrong), 20)], func(t *testing.T) {
			ok, err := h.Verify(wrong, hash)
			require.NoError(t, err, "mismatch is not an error")
			require.False(t, ok)
		})
	}
}

func TestVerify_PepperMatters(t *testing.T) {
	hash, err := NewHasher(testParams, "pepper-a").Hash("secret")
	require.NoError(t, err)

	ok, err := NewHasher(testParams, "pepper-b").Verify("secret", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerify_MalformedHash(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"plaintext", "not-a-hash"},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero iterations", "$argon2id$v=19$m=19456,t=0,p=1$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2a$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("test-password", tt.invalidHash)
			require.ErrorIs(t, err, ErrMalformedHash)
			require.False(t, ok)
		})
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	h := newTestHasher()

	legacy, err := bcrypt.GenerateFromPassword([]byte("p1"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := h.Verify("p1", string(legacy))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", string(legacy))
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, h.NeedsRehash(string(legacy)))
}

func TestNeedsRehash(t *testing.T) {
	weak := NewHasher(testParams, "")
	strong := NewHasher(Params{MemoryKiB: 2048, Iterations: 2}, "")

	hash, err := weak.Hash("pw")
	require.NoError(t, err)

	require.False(t, weak.NeedsRehash(hash))
	require.True(t, strong.NeedsRehash(hash))
	require.True(t, weak.NeedsRehash("garbage"))
}

func TestNewHasher_DefaultsZeroParams(t *testing.T) {
	h := NewHasher(Params{}, "")
	require.Equal(t, DefaultParams(), h.Params())
}
