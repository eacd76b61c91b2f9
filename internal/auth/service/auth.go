package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/store"
	"github.com/aussiebroadwan/orgauth/pkg/cryptox"
	"github.com/aussiebroadwan/orgauth/pkg/errutil"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RegisterRequest carries a new identity. ID comes from the caller's
// identifier generator.
type RegisterRequest struct {
	ID       string
	Email    string
	Password string
}

// AuthService registers users and logs them in.
type AuthService struct {
	store   store.Store
	hasher  Hasher
	tokens  *TokenService
	metrics *Metrics
}

func NewAuthService(st store.Store, hasher Hasher, tokens *TokenService, metrics *Metrics) *AuthService {
	return &AuthService{store: st, hasher: hasher, tokens: tokens, metrics: metrics}
}

// Register creates the user if no user holds the email yet. Emails are
// compared byte for byte. The pre-check is advisory: a duplicate key from
// the store is reported the same way.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (err error) {
	ctx, span := tracer.Start(ctx, "auth.register", trace.WithAttributes(attribute.String("user.id", req.ID)))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	// 1. Validate input
	if req.ID == "" || req.Email == "" || req.Password == "" {
		s.metrics.registration("invalid")
		return domain.Errorf(domain.KindInvalidRequest, "Email and password are required")
	}

	// 2. Check existence
	n, err := s.store.Users().CountByEmail(ctx, req.Email)
	if err != nil {
		errutil.LogError(log, "failed to count users by email", err)
		s.metrics.registration("error")
		return domain.StorageError(domain.MsgStorageCheckEmail, err)
	}
	if n > 0 {
		log.InfoContext(ctx, "registration rejected, email already registered")
		s.metrics.registration("exists")
		return domain.Errorf(domain.KindUserExists, domain.MsgUserExists)
	}

	// 3. Hash and insert
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		errutil.LogError(log, "failed to hash password", err)
		s.metrics.registration("error")
		return domain.StorageError(domain.MsgStorageHashPassword, err)
	}

	err = s.store.Users().CreateUser(ctx, domain.User{
		ID:           req.ID,
		Email:        req.Email,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		log.InfoContext(ctx, "registration lost uniqueness race", slog.String("user_id", req.ID))
		s.metrics.registration("exists")
		return domain.Errorf(domain.KindUserExists, domain.MsgUserExists)
	case err != nil:
		errutil.LogError(log, "failed to create user", err, "user_id", req.ID)
		s.metrics.registration("error")
		return domain.StorageError(domain.MsgStorageRegister, err)
	}

	log.InfoContext(ctx, "user registered", slog.String("user_id", req.ID))
	s.metrics.registration("created")
	return nil
}

// RegisterAndIssue registers the user and immediately issues a session token
// for the new identity without re-checking the password.
func (s *AuthService) RegisterAndIssue(ctx context.Context, req RegisterRequest) (string, error) {
	if err := s.Register(ctx, req); err != nil {
		return "", err
	}
	return s.tokens.IssueSessionToken(req.Email)
}

// Login verifies the password for email and returns a session token. An
// unknown email is reported without hashing anything. Empty fields are not
// special: no user holds the empty email, and the empty password never
// matches a stored digest.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, err error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	// 1. Look up user by exact email
	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.InfoContext(ctx, "login failed, unknown email")
			s.metrics.login("unknown_email")
			return "", domain.Errorf(domain.KindInvalidCredentials, domain.MsgEmailIncorrect)
		}
		errutil.LogError(log, "failed to fetch user", err)
		s.metrics.login("error")
		return "", domain.StorageError(domain.MsgStorageFetchUser, err)
	}

	// 2. Verify password
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, cryptox.ErrMalformedHash) {
			log.ErrorContext(ctx, "stored password hash is malformed", slog.String("user_id", user.ID), slog.Any("error", err))
			s.metrics.login("error")
			return "", domain.Wrap(domain.KindMalformedCredential, "Stored credential is malformed", err)
		}
		errutil.LogError(log, "failed to verify password", err, "user_id", user.ID)
		s.metrics.login("error")
		return "", domain.StorageError(domain.MsgStorageVerifyPassword, err)
	}
	if !ok {
		log.InfoContext(ctx, "login failed, wrong password", slog.String("user_id", user.ID))
		s.metrics.login("wrong_password")
		return "", domain.Errorf(domain.KindInvalidCredentials, domain.MsgPasswordIncorrect)
	}

	// 3. Upgrade legacy or weaker digests, best effort
	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password)
	}

	token, err = s.tokens.IssueSessionToken(user.Email)
	if err != nil {
		errutil.LogError(log, "failed to issue session token", err, "user_id", user.ID)
		s.metrics.login("error")
		return "", err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.metrics.login("success")
	return token, nil
}

func (s *AuthService) rehash(ctx context.Context, userID, password string) {
	log := slogx.FromContext(ctx)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.WarnContext(ctx, "password rehash failed", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		log.WarnContext(ctx, "password rehash not stored", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	log.InfoContext(ctx, "password hash upgraded", slog.String("user_id", userID))
}
