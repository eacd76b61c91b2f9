// Package idx generates the opaque identifiers assigned to users and
// organisations. IDs are ULIDs rendered in lowercase.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	globalOnce sync.Once
	global     *Generator
)

// Generator safely generates ULIDs concurrently using a monotonic source.
// The zero value is not usable; use NewGenerator.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewGenerator returns a Generator reading crypto/rand entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewID returns a fresh identifier as a plain string, satisfying the
// identifier-generator dependency of the services.
func (g *Generator) NewID() string {
	return g.NewAt(g.now()).String()
}

// NewAt generates an ID at the provided time (UTC).
func (g *Generator) NewAt(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(t), g.entropy)
	return ID(strings.ToLower(u.String()))
}

// New returns a new lexicographically sortable ID from the process-wide
// generator.
func New() ID {
	globalOnce.Do(func() { global = NewGenerator() })
	return global.NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time from the process-wide generator.
func NewAt(t time.Time) ID {
	globalOnce.Do(func() { global = NewGenerator() })
	return global.NewAt(t)
}

// Parse parses a ULID string (either case) into a canonical lowercase ID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	u, err := ulid.ParseStrict(s)
	if err != nil {
		return Zero, ErrInvalid
	}

	return ID(strings.ToLower(u.String())), nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Time extracts the embedded UTC timestamp from the ID.
// If the ID is invalid or zero, it returns the zero time.
func (id ID) Time() time.Time {
	if id.IsZero() {
		return time.Time{}
	}

	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}

	return ulid.Time(u.Time())
}
