package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/mail"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/pkg/errutil"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type InviteConfig struct {
	// From is the sender address of every invite.
	From string
	// BaseURL is the frontend the join link points at.
	BaseURL string
	// Concurrency bounds parallel sends per batch. With 1, sends go out in
	// input order.
	Concurrency int
}

// InviteService mints invite tokens and hands them to the mail transport.
type InviteService struct {
	store   store.Store
	guard   *OwnershipGuard
	tokens  *TokenService
	mailer  mail.Transport
	cfg     InviteConfig
	metrics *Metrics

	inflight sync.WaitGroup
}

func NewInviteService(
	st store.Store,
	guard *OwnershipGuard,
	tokens *TokenService,
	mailer mail.Transport,
	cfg InviteConfig,
	metrics *Metrics,
) *InviteService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &InviteService{
		store:   st,
		guard:   guard,
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
		metrics: metrics,
	}
}

// InviteBatch tracks the background dispatch of one Invite call.
type InviteBatch struct {
	results []domain.InviteResult
	done    chan struct{}
}

// Len is the number of addresses in the batch.
func (b *InviteBatch) Len() int { return len(b.results) }

// Done is closed once every send has finished.
func (b *InviteBatch) Done() <-chan struct{} { return b.done }

// Wait blocks until every send has finished and returns one result per
// address, in input order.
func (b *InviteBatch) Wait() []domain.InviteResult {
	<-b.done
	out := make([]domain.InviteResult, len(b.results))
	copy(out, b.results)
	return out
}

// Invite sends one invite per address in req.Emails. The caller must own the
// organisation. It returns once dispatch has started; sends are independent
// and a failed send is recorded on its own result only.
func (s *InviteService) Invite(ctx context.Context, sessionToken string, req domain.InviteRequest) (batch *InviteBatch, err error) {
	ctx, span := tracer.Start(ctx, "invite.dispatch", trace.WithAttributes(
		attribute.String("org.id", req.OrganisationID),
		attribute.Int("invite.count", len(req.Emails)),
	))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx).With(slog.String("org_id", req.OrganisationID))

	if req.OrganisationID == "" {
		return nil, domain.Errorf(domain.KindInvalidRequest, "Organisation ID is required")
	}

	// 1. Only the owner may invite
	inviterID, err := s.guard.Authorize(ctx, req.OrganisationID, sessionToken, domain.MsgInviteForbidden)
	if err != nil {
		return nil, err
	}

	// 2. Load the organisation for the message content
	org, err := s.store.Organisations().GetOrganisationByID(ctx, req.OrganisationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Errorf(domain.KindOrganisationNotFound, domain.MsgOrganisationNotFound)
		}
		errutil.LogError(log, "failed to fetch organisation", err)
		return nil, domain.StorageError(domain.MsgStorageFetchOrganisation, err)
	}

	// 3. Mint and render per address, in input order, duplicates included
	batch = &InviteBatch{
		results: make([]domain.InviteResult, len(req.Emails)),
		done:    make(chan struct{}),
	}
	messages := make([]*mail.Message, len(req.Emails))
	for i, email := range req.Emails {
		batch.results[i].Email = email

		token, err := s.tokens.IssueInviteToken(email, req.Manager, org.ID)
		if err != nil {
			batch.results[i].Err = err
			continue
		}
		batch.results[i].Token = token

		body, err := mail.RenderInvite(mail.InviteContent{
			Email:            email,
			OrganisationName: org.Name,
			Manager:          req.Manager,
			Token:            token,
			BaseURL:          s.cfg.BaseURL,
		})
		if err != nil {
			batch.results[i].Err = err
			continue
		}

		messages[i] = &mail.Message{
			From:     s.cfg.From,
			To:       email,
			Subject:  mail.InviteSubject,
			HTMLBody: body,
		}
	}

	// 4. Dispatch in the background, detached from request cancellation
	s.inflight.Add(1)
	go s.dispatch(context.WithoutCancel(ctx), log, batch, messages)

	log.InfoContext(ctx, "invite dispatch started",
		slog.String("inviter_id", inviterID),
		slog.Int("count", len(req.Emails)),
		slog.Bool("manager", req.Manager),
	)
	return batch, nil
}

func (s *InviteService) dispatch(ctx context.Context, log *slog.Logger, batch *InviteBatch, messages []*mail.Message) {
	defer s.inflight.Done()
	defer close(batch.done)

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, msg := range messages {
		if msg == nil {
			s.metrics.invite("failed")
			log.ErrorContext(ctx, "invite not sent", slog.Int("index", i), slog.Any("error", batch.results[i].Err))
			continue
		}
		g.Go(func() error {
			if err := s.mailer.Send(ctx, *msg); err != nil {
				batch.results[i].Err = err
				s.metrics.invite("failed")
				log.ErrorContext(ctx, "invite send failed", slog.Int("index", i), slog.Any("error", err))
				return nil
			}
			s.metrics.invite("sent")
			log.DebugContext(ctx, "invite sent", slog.Int("index", i))
			return nil
		})
	}

	_ = g.Wait()
}

// Drain waits for in-flight dispatches to finish or ctx to end.
func (s *InviteService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
