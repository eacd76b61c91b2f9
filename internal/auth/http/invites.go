package http

import (
	"net/http"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/service"
	"github.com/aussiebroadwan/orgauth/pkg/httpx"
)

type InviteRequest struct {
	Emails  []string `json:"emails"`
	Manager bool     `json:"manager"`
}

type InviteResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type InspectRequest struct {
	Token string `json:"token"`
}

type InspectResponse struct {
	Success bool               `json:"success"`
	Invite  domain.InviteGrant `json:"invite"`
}

type InvitesHandler struct {
	InviteService *service.InviteService
	TokenService  *service.TokenService
}

// HandleInvite starts the invite dispatch and answers 202 without waiting for
// delivery.
func (h *InvitesHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	batch, err := h.InviteService.Invite(ctx, httpx.SessionToken(ctx), domain.InviteRequest{
		Emails:         req.Emails,
		Manager:        req.Manager,
		OrganisationID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, InviteResponse{Success: true, Count: batch.Len()})
}

// HandleInspect decodes an invite token for the join page.
func (h *InvitesHandler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	var req InspectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	grant, err := h.TokenService.ResolveInvite(r.Context(), req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, InspectResponse{Success: true, Invite: grant})
}
