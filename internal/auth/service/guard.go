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

// OwnershipGuard decides whether a session belongs to an organisation's
// owner. Nothing is cached; every call reads the store.
type OwnershipGuard struct {
	store   store.Store
	tokens  *TokenService
	metrics *Metrics
}

func NewOwnershipGuard(st store.Store, tokens *TokenService, metrics *Metrics) *OwnershipGuard {
	return &OwnershipGuard{store: st, tokens: tokens, metrics: metrics}
}

// ResolveUserID maps a session token to a user id (token -> email -> id).
func (g *OwnershipGuard) ResolveUserID(ctx context.Context, sessionToken string) (string, error) {
	email, err := g.tokens.ResolveIdentity(ctx, sessionToken)
	if err != nil {
		return "", err
	}

	user, err := g.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).WarnContext(ctx, "valid session for unknown user")
			return "", domain.Errorf(domain.KindInvalidToken, domain.MsgUnknownUser)
		}
		errutil.LogError(slogx.FromContext(ctx), "failed to fetch user", err)
		return "", domain.StorageError(domain.MsgStorageFetchUser, err)
	}
	return user.ID, nil
}

// IsOwner reports whether userID is the recorded owner of orgID.
func (g *OwnershipGuard) IsOwner(ctx context.Context, orgID, userID string) (bool, error) {
	org, err := g.store.Organisations().GetOrganisationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, domain.Errorf(domain.KindOrganisationNotFound, domain.MsgOrganisationNotFound)
		}
		errutil.LogError(slogx.FromContext(ctx), "failed to fetch organisation", err, "org_id", orgID)
		return false, domain.StorageError(domain.MsgStorageFetchOrganisation, err)
	}
	return userID != "" && org.OwnerID == userID, nil
}

// Authorize resolves the caller and requires them to own orgID. Failing to
// resolve either side denies with the supplied message; only storage
// failures keep their own kind.
func (g *OwnershipGuard) Authorize(ctx context.Context, orgID, sessionToken, denial string) (userID string, err error) {
	ctx, span := tracer.Start(ctx, "guard.authorize", trace.WithAttributes(attribute.String("org.id", orgID)))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx).With(slog.String("org_id", orgID))

	userID, err = g.ResolveUserID(ctx, sessionToken)
	if err != nil {
		if domain.Is(err, domain.KindStorage) {
			return "", err
		}
		log.WarnContext(ctx, "authorization denied, caller unresolved", slog.String("reason", string(domain.KindOf(err))))
		return "", g.deny("caller_unresolved", denial)
	}

	owner, err := g.IsOwner(ctx, orgID, userID)
	if err != nil {
		if domain.Is(err, domain.KindStorage) {
			return "", err
		}
		log.WarnContext(ctx, "authorization denied, organisation unresolved", slog.String("user_id", userID))
		return "", g.deny("organisation_unresolved", denial)
	}
	if !owner {
		log.WarnContext(ctx, "authorization denied, caller is not the owner", slog.String("user_id", userID))
		return "", g.deny("not_owner", denial)
	}

	return userID, nil
}

func (g *OwnershipGuard) deny(reason, denial string) error {
	g.metrics.denial(reason)
	return domain.Errorf(domain.KindNotOwner, "%s", denial)
}
