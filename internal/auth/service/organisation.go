package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/pkg/errutil"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrganisationService manages organisations on behalf of a session.
type OrganisationService struct {
	store store.Store
	guard *OwnershipGuard
	ids   IDGenerator
}

func NewOrganisationService(st store.Store, guard *OwnershipGuard, ids IDGenerator) *OrganisationService {
	return &OrganisationService{store: st, guard: guard, ids: ids}
}

// Setup creates an organisation owned by the caller.
func (s *OrganisationService) Setup(ctx context.Context, sessionToken, name, description string) (org domain.Organisation, err error) {
	ctx, span := tracer.Start(ctx, "organisation.setup")
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	if name == "" {
		return domain.Organisation{}, domain.Errorf(domain.KindInvalidRequest, "Organisation name is required")
	}

	ownerID, err := s.guard.ResolveUserID(ctx, sessionToken)
	if err != nil {
		return domain.Organisation{}, err
	}

	org = domain.Organisation{
		ID:          s.ids.NewID(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.store.Organisations().CreateOrganisation(ctx, org); err != nil {
		errutil.LogError(log, "failed to create organisation", err, "org_id", org.ID)
		return domain.Organisation{}, domain.StorageError(domain.MsgStorageCreateOrganisation, err)
	}

	// Re-read for the stored timestamps.
	stored, err := s.store.Organisations().GetOrganisationByID(ctx, org.ID)
	if err == nil {
		org = stored
	}

	span.SetAttributes(attribute.String("org.id", org.ID))
	log.InfoContext(ctx, "organisation created", slog.String("org_id", org.ID), slog.String("owner_id", ownerID))
	return org, nil
}

// List returns the organisations the caller owns.
func (s *OrganisationService) List(ctx context.Context, sessionToken string) ([]domain.Organisation, error) {
	ownerID, err := s.guard.ResolveUserID(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	orgs, err := s.store.Organisations().ListByOwner(ctx, ownerID)
	if err != nil {
		errutil.LogError(slogx.FromContext(ctx), "failed to list organisations", err, "owner_id", ownerID)
		return nil, domain.StorageError(domain.MsgStorageListOrganisations, err)
	}
	return orgs, nil
}

// Get returns one organisation. Any authenticated caller may read it.
func (s *OrganisationService) Get(ctx context.Context, orgID string) (domain.Organisation, error) {
	org, err := s.store.Organisations().GetOrganisationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organisation{}, domain.Errorf(domain.KindOrganisationNotFound, domain.MsgOrganisationNotFound)
		}
		errutil.LogError(slogx.FromContext(ctx), "failed to fetch organisation", err, "org_id", orgID)
		return domain.Organisation{}, domain.StorageError(domain.MsgStorageFetchOrganisation, err)
	}
	return org, nil
}

// Update changes name and description. Only the owner may call it; the owner
// itself is never changed.
func (s *OrganisationService) Update(ctx context.Context, sessionToken, orgID, name, description string) (err error) {
	ctx, span := tracer.Start(ctx, "organisation.update", trace.WithAttributes(attribute.String("org.id", orgID)))
	defer func() { endSpan(span, err) }()

	if name == "" {
		return domain.Errorf(domain.KindInvalidRequest, "Organisation name is required")
	}

	userID, err := s.guard.Authorize(ctx, orgID, sessionToken, domain.MsgNotOwner)
	if err != nil {
		return err
	}

	if err := s.store.Organisations().UpdateDetails(ctx, orgID, name, description); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Errorf(domain.KindOrganisationNotFound, domain.MsgOrganisationNotFound)
		}
		errutil.LogError(slogx.FromContext(ctx), "failed to update organisation", err, "org_id", orgID)
		return domain.StorageError(domain.MsgStorageUpdateOrganisation, err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "organisation updated", slog.String("org_id", orgID), slog.String("user_id", userID))
	return nil
}
