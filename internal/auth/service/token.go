package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/pkg/jwtx"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
)

type TokenConfig struct {
	Keys       jwtx.Keys
	Issuer     string
	SessionTTL time.Duration
	InviteTTL  time.Duration
	Leeway     time.Duration
	Now        func() time.Time
}

// TokenService mints and verifies session and invite tokens. Its keys are
// fixed at construction so independent instances can hold distinct secrets.
type TokenService struct {
	issuer     string
	sessionTTL time.Duration
	inviteTTL  time.Duration
	now        func() time.Time

	sessionSigner   *jwtx.Signer
	sessionVerifier *jwtx.Verifier
	inviteSigner    *jwtx.Signer
	inviteVerifier  *jwtx.Verifier
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = jwtx.DefaultSessionTTL
	}
	if cfg.InviteTTL <= 0 {
		cfg.InviteTTL = jwtx.DefaultInviteTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := jwtx.VerifyOptions{Issuer: cfg.Issuer, Leeway: cfg.Leeway, Now: cfg.Now}

	s := &TokenService{
		issuer:     cfg.Issuer,
		sessionTTL: cfg.SessionTTL,
		inviteTTL:  cfg.InviteTTL,
		now:        cfg.Now,
	}

	var err error
	if s.sessionSigner, err = jwtx.NewSigner(cfg.Keys, jwtx.UseSession); err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}
	if s.sessionVerifier, err = jwtx.NewVerifier(cfg.Keys, jwtx.UseSession, opts); err != nil {
		return nil, fmt.Errorf("session verifier: %w", err)
	}
	if s.inviteSigner, err = jwtx.NewSigner(cfg.Keys, jwtx.UseInvite); err != nil {
		return nil, fmt.Errorf("invite signer: %w", err)
	}
	if s.inviteVerifier, err = jwtx.NewVerifier(cfg.Keys, jwtx.UseInvite, opts); err != nil {
		return nil, fmt.Errorf("invite verifier: %w", err)
	}

	return s, nil
}

// SessionTTL is how long newly issued session tokens live.
func (s *TokenService) SessionTTL() time.Duration { return s.sessionTTL }

// IssueSessionToken binds email as the sole identity claim.
func (s *TokenService) IssueSessionToken(email string) (string, error) {
	token, err := s.sessionSigner.Sign(jwtx.NewSessionClaims(email, s.issuer, s.sessionTTL, s.now()))
	if err != nil {
		return "", domain.StorageError(domain.MsgStorageSignToken, err)
	}
	return token, nil
}

// IssueInviteToken binds the invitee, role flag and organisation.
func (s *TokenService) IssueInviteToken(email string, manager bool, organisationID string) (string, error) {
	claims := jwtx.NewInviteClaims(email, manager, organisationID, s.issuer, s.inviteTTL, s.now())
	token, err := s.inviteSigner.Sign(claims)
	if err != nil {
		return "", domain.StorageError(domain.MsgStorageSignToken, err)
	}
	return token, nil
}

// ResolveIdentity verifies a session token and returns its email. Any
// failure, including presenting an invite token, is INVALID_TOKEN.
func (s *TokenService) ResolveIdentity(ctx context.Context, token string) (string, error) {
	claims, err := s.sessionVerifier.VerifySession(token)
	if err != nil {
		slogx.FromContext(ctx).DebugContext(ctx, "session token rejected", slog.Any("error", err))
		return "", domain.Errorf(domain.KindInvalidToken, domain.MsgInvalidToken)
	}
	return claims.Email, nil
}

// ResolveInvite verifies an invite token and returns what it grants.
func (s *TokenService) ResolveInvite(ctx context.Context, token string) (domain.InviteGrant, error) {
	claims, err := s.inviteVerifier.VerifyInvite(token)
	if err != nil {
		slogx.FromContext(ctx).DebugContext(ctx, "invite token rejected", slog.Any("error", err))
		return domain.InviteGrant{}, domain.Errorf(domain.KindInvalidToken, domain.MsgInvalidToken)
	}
	return domain.InviteGrant{
		Email:          claims.Email,
		Manager:        claims.Manager,
		OrganisationID: claims.OrganisationID,
	}, nil
}
