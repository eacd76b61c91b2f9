package http

import (
	"net/http"

	"github.com/aussiebroadwan/orgauth/internal/auth/domain"
	"github.com/aussiebroadwan/orgauth/internal/auth/service"
	"github.com/aussiebroadwan/orgauth/pkg/httpx"
)

type OrganisationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type OrganisationResponse struct {
	Success      bool                `json:"success"`
	Organisation domain.Organisation `json:"organisation"`
}

type OrganisationListResponse struct {
	Success       bool                  `json:"success"`
	Organisations []domain.Organisation `json:"organisations"`
}

type OrganisationsHandler struct {
	OrganisationService *service.OrganisationService
}

func (h *OrganisationsHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	var req OrganisationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	org, err := h.OrganisationService.Setup(ctx, httpx.SessionToken(ctx), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, OrganisationResponse{Success: true, Organisation: org})
}

func (h *OrganisationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgs, err := h.OrganisationService.List(ctx, httpx.SessionToken(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orgs == nil {
		orgs = []domain.Organisation{}
	}

	httpx.WriteJSON(w, http.StatusOK, OrganisationListResponse{Success: true, Organisations: orgs})
}

func (h *OrganisationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	org, err := h.OrganisationService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, OrganisationResponse{Success: true, Organisation: org})
}

func (h *OrganisationsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req OrganisationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	orgID := r.PathValue("id")
	if err := h.OrganisationService.Update(ctx, httpx.SessionToken(ctx), orgID, req.Name, req.Description); err != nil {
		writeError(w, r, err)
		return
	}

	org, err := h.OrganisationService.Get(ctx, orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, OrganisationResponse{Success: true, Organisation: org})
}
