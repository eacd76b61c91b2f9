package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, id, email string) domain.User {
	t.Helper()
	u := domain.User{ID: id, Email: email, PasswordHash: "$argon2id$stub"}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	seedUser(t, s, "u1", "a@x.com")

	t.Run("get by email", func(t *testing.T) {
		u, err := s.Users().GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.Equal(t, "u1", u.ID)
		require.Equal(t, "$argon2id$stub", u.PasswordHash)
		require.False(t, u.CreatedAt.IsZero())
	})

	t.Run("email match is exact", func(t *testing.T) {
		_, err := s.Users().GetUserByEmail(ctx, "A@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		n, err := s.Users().CountByEmail(ctx, " a@x.com")
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("count", func(t *testing.T) {
		n, err := s.Users().CountByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, domain.User{ID: "u2", Email: "a@x.com", PasswordHash: "h"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, domain.User{ID: "u1", Email: "other@x.com", PasswordHash: "h"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update password hash", func(t *testing.T) {
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, "u1", "new"))
		u, err := s.Users().GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.Equal(t, "new", u.PasswordHash)

		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Users().GetUserByEmail(ctx, "missing@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsers_ConcurrentDuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Users().CreateUser(ctx, domain.User{
				ID:           fmt.Sprintf("u%d", i),
				Email:        "race@x.com",
				PasswordHash: "h",
			})
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	}
	require.Equal(t, 1, ok)

	count, err := s.Users().CountByEmail(ctx, "race@x.com")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestOrganisations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	seedUser(t, s, "owner", "owner@x.com")
	seedUser(t, s, "other", "other@x.com")

	for _, id := range []string{"o1", "o2"} {
		require.NoError(t, s.Organisations().CreateOrganisation(ctx, domain.Organisation{
			ID: id, Name: "Org " + id, Description: "d", OwnerID: "owner",
		}))
	}

	t.Run("get", func(t *testing.T) {
		o, err := s.Organisations().GetOrganisationByID(ctx, "o1")
		require.NoError(t, err)
		require.Equal(t, "Org o1", o.Name)
		require.Equal(t, "owner", o.OwnerID)
	})

	t.Run("list by owner", func(t *testing.T) {
		orgs, err := s.Organisations().ListByOwner(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, orgs, 2)

		orgs, err = s.Organisations().ListByOwner(ctx, "other")
		require.NoError(t, err)
		require.Empty(t, orgs)
	})

	t.Run("update details keeps owner", func(t *testing.T) {
		require.NoError(t, s.Organisations().UpdateDetails(ctx, "o1", "Renamed", "new desc"))
		o, err := s.Organisations().GetOrganisationByID(ctx, "o1")
		require.NoError(t, err)
		require.Equal(t, "Renamed", o.Name)
		require.Equal(t, "new desc", o.Description)
		require.Equal(t, "owner", o.OwnerID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Organisations().GetOrganisationByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Organisations().UpdateDetails(ctx, "nope", "n", "d"), store.ErrNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := s.Organisations().CreateOrganisation(ctx, domain.Organisation{ID: "o1", Name: "x", OwnerID: "owner"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}
