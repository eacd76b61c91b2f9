package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var errDiskGone = errors.New("disk gone")

// failingWrites serves organisation reads from the real store and fails
// every other call.
type failingWrites struct {
	store.Organisations
}

func (failingWrites) CreateOrganisation(context.Context, domain.Organisation) error {
	return errDiskGone
}

func (failingWrites) ListByOwner(context.Context, string) ([]domain.Organisation, error) {
	return nil, errDiskGone
}

func (failingWrites) UpdateDetails(context.Context, string, string, string) error {
	return errDiskGone
}

type failingWritesStore struct {
	*sqlite.Store
}

func (s failingWritesStore) Organisations() store.Organisations {
	return failingWrites{s.Store.Organisations()}
}

func TestStorageFailure_ClosedStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, token := f.registerAndLogin(t, "a@x.com")
	org := f.setupOrganisation(t, token, "Acme")
	require.NoError(t, f.store.Close())

	t.Run("register", func(t *testing.T) {
		err := f.auth.Register(ctx, RegisterRequest{ID: f.ids.NewID(), Email: "b@x.com", Password: "pw"})
		requireKind(t, err, domain.KindStorage, domain.MsgStorageCheckEmail)
	})

	t.Run("login", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "a@x.com", "pw-a@x.com")
		requireKind(t, err, domain.KindStorage, domain.MsgStorageFetchUser)
	})

	t.Run("get organisation", func(t *testing.T) {
		_, err := f.orgs.Get(ctx, org.ID)
		requireKind(t, err, domain.KindStorage, domain.MsgStorageFetchOrganisation)
	})

	t.Run("list organisations", func(t *testing.T) {
		_, err := f.orgs.List(ctx, token)
		requireKind(t, err, domain.KindStorage, domain.MsgStorageFetchUser)
	})

	t.Run("update keeps storage kind through the guard", func(t *testing.T) {
		err := f.orgs.Update(ctx, token, org.ID, "Acme 2", "")
		requireKind(t, err, domain.KindStorage, domain.MsgStorageFetchUser)
	})

	t.Run("invite", func(t *testing.T) {
		_, err := f.invites.Invite(ctx, token, domain.InviteRequest{OrganisationID: org.ID, Emails: []string{"c@x.com"}})
		requireKind(t, err, domain.KindStorage, domain.MsgStorageFetchUser)
	})
}

func TestStorageFailure_OrganisationWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, token := f.registerAndLogin(t, "a@x.com")
	org := f.setupOrganisation(t, token, "Acme")

	broken := failingWritesStore{f.store}
	orgs := NewOrganisationService(broken, NewOwnershipGuard(broken, f.tokens, f.metrics), f.ids)

	t.Run("setup", func(t *testing.T) {
		_, err := orgs.Setup(ctx, token, "Other", "")
		requireKind(t, err, domain.KindStorage, domain.MsgStorageCreateOrganisation)
		require.ErrorIs(t, err, errDiskGone)
	})

	t.Run("list", func(t *testing.T) {
		_, err := orgs.List(ctx, token)
		requireKind(t, err, domain.KindStorage, domain.MsgStorageListOrganisations)
	})

	t.Run("update", func(t *testing.T) {
		err := orgs.Update(ctx, token, org.ID, "Acme 2", "")
		requireKind(t, err, domain.KindStorage, domain.MsgStorageUpdateOrganisation)
	})
}
