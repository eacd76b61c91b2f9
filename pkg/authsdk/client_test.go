package authsdk_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/orgauth/internal/auth/http"
	"github.com/aussiebroadwan/orgauth/internal/auth/mail"
	"github.com/aussiebroadwan/orgauth/internal/auth/service"
	"github.com/aussiebroadwan/orgauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/orgauth/pkg/authsdk"
	"github.com/aussiebroadwan/orgauth/pkg/cryptox"
	"github.com/aussiebroadwan/orgauth/pkg/httpx"
	"github.com/aussiebroadwan/orgauth/pkg/idx"
	"github.com/aussiebroadwan/orgauth/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (b *inbox) Send(_ context.Context, msg mail.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

func (b *inbox) messages() []mail.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]mail.Message(nil), b.msgs...)
}

// startService runs the whole API in-process and returns a client for it.
func startService(t *testing.T) (*authsdk.SDKClient, *inbox, *service.InviteService) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.DeriveKeys([]byte(strings.Repeat("e", 32)))
	require.NoError(t, err)
	tokens, err := service.NewTokenService(service.TokenConfig{Keys: keys, Issuer: "orgauth-e2e"})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics(reg)
	ids := idx.NewGenerator()
	guard := service.NewOwnershipGuard(st, tokens, metrics)
	box := &inbox{}
	invites := service.NewInviteService(st, guard, tokens, box, service.InviteConfig{
		From:    "noreply@orgauth.test",
		BaseURL: "https://app.orgauth.test",
	}, metrics)

	router := httpapi.NewRouter("e2e", st, reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.IDs = ids
	router.TokenService = tokens
	router.AuthService = service.NewAuthService(st,
		cryptox.NewHasher(cryptox.Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1}, ""), tokens, metrics)
	router.OrganisationService = service.NewOrganisationService(st, guard, ids)
	router.InviteService = invites
	router.CredentialLimit = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = invites.Drain(ctx)
	})

	return authsdk.NewSDKClient(srv.URL + "/"), box, invites
}

func requireAPIError(t *testing.T, err error, status int, code, msg string) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	if msg != "" {
		require.Equal(t, msg, apiErr.Message())
	}
}

func tokenFromLink(t *testing.T, body string) string {
	t.Helper()
	const marker = "join?token="
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "join link not found")
	rest := body[i+len(marker):]
	end := strings.IndexAny(rest, `"<&`)
	require.Greater(t, end, 0)
	token, err := url.QueryUnescape(rest[:end])
	require.NoError(t, err)
	return token
}

func TestOwnerInvitesMembers(t *testing.T) {
	ctx := context.Background()
	client, box, invites := startService(t)

	owner, err := client.Register(ctx, "owner@x.com", "pw")
	require.NoError(t, err)
	require.False(t, owner.Expired())

	org, err := owner.SetupOrganisation(ctx, "Acme", "Widgets")
	require.NoError(t, err)

	count, err := owner.Invite(ctx, org.ID, []string{"a@x.com", "b@x.com", "c@x.com"}, true)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	drainCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, invites.Drain(drainCtx))

	msgs := box.messages()
	require.Len(t, msgs, 3)
	for i, want := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.Equal(t, want, msgs[i].To)
		require.Equal(t, "[Invite] You are invited", msgs[i].Subject)

		invite, err := client.InspectInvite(ctx, tokenFromLink(t, msgs[i].HTMLBody))
		require.NoError(t, err)
		require.Equal(t, authsdk.Invite{Email: want, Manager: true, OrganisationID: org.ID}, *invite)
	}
}

func TestNonOwnerCannotManage(t *testing.T) {
	ctx := context.Background()
	client, box, _ := startService(t)

	owner, err := client.Register(ctx, "owner@x.com", "pw")
	require.NoError(t, err)
	other, err := client.Register(ctx, "other@x.com", "pw")
	require.NoError(t, err)

	org, err := owner.SetupOrganisation(ctx, "Acme", "")
	require.NoError(t, err)

	_, err = other.Invite(ctx, org.ID, []string{"a@x.com"}, false)
	requireAPIError(t, err, http.StatusForbidden, authsdk.CodeNotOwner, "You are forbidden to invite other members")

	_, err = other.UpdateOrganisation(ctx, org.ID, "Mine", "")
	requireAPIError(t, err, http.StatusForbidden, authsdk.CodeNotOwner, "You are not the owner")

	got, err := other.GetOrganisation(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)

	orgs, err := other.ListOrganisations(ctx)
	require.NoError(t, err)
	require.Empty(t, orgs)

	require.Empty(t, box.messages())
}

func TestCredentials(t *testing.T) {
	ctx := context.Background()
	client, _, _ := startService(t)

	_, err := client.Register(ctx, "a@x.com", "pw")
	require.NoError(t, err)

	_, err = client.Register(ctx, "a@x.com", "pw")
	requireAPIError(t, err, http.StatusConflict, authsdk.CodeUserExists, "User exists")

	_, err = client.Login(ctx, "a@x.com", "wrong")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.CodeInvalidCredentials, "Password entered is incorrect")

	_, err = client.Login(ctx, "nobody@x.com", "pw")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.CodeInvalidCredentials, "Email entered is incorrect")

	session, err := client.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)

	_, err = client.InspectInvite(ctx, session.Token())
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.CodeInvalidToken, "")

	forged := client.NewSessionFromToken("forged", time.Now().Add(time.Hour))
	_, err = forged.ListOrganisations(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.CodeInvalidToken, "")
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	client, _, _ := startService(t)

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "e2e", live.Version)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Database)
}
