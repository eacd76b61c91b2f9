package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/orgauth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, token string) (string, error)

func (f resolverFunc) ResolveIdentity(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

func TestSessionMiddleware(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, token string) (string, error) {
		if token == "good" {
			return "a@x.com", nil
		}
		return "", errors.New("bad token")
	})

	var gotToken, gotEmail string
	h := httpx.SessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = httpx.SessionToken(r.Context())
		gotEmail = httpx.SessionEmail(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotToken, gotEmail = "", ""
			req := httptest.NewRequest(http.MethodGet, "/v1/organisations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusNoContent {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
				var body httpx.Failure
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, "INVALID_TOKEN", body.Code)
				return
			}
			require.Equal(t, "good", gotToken)
			require.Equal(t, "a@x.com", gotEmail)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
