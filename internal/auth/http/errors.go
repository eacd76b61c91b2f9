package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/pkg/errutil"
	"github.com/aussiebroadwan/orgauth/pkg/httpx"
	"github.com/aussiebroadwan/orgauth/pkg/slogx"
)

const maxBodyBytes = 1 << 20

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindInvalidToken:
		return http.StatusUnauthorized
	case domain.KindNotOwner:
		return http.StatusForbidden
	case domain.KindOrganisationNotFound:
		return http.StatusNotFound
	case domain.KindUserExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a core error onto the failure envelope. The core message
// is passed through as is; internal failures are also logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	if status == http.StatusInternalServerError {
		errutil.LogError(slogx.FromContext(r.Context()), "request failed", err)
	}
	httpx.WriteFailure(w, status, string(kind), domain.Message(err))
}

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteFailure(w, http.StatusBadRequest, string(domain.KindInvalidRequest), "Invalid JSON body")
		return false
	}
	return true
}
