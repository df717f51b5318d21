package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ro-service/api/internal/application/technician"
	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/transport/http/middleware"
)

// TechnicianHandler handles technician account endpoints.
type TechnicianHandler struct {
	svc technician.Service
}

func NewTechnicianHandler(svc technician.Service) *TechnicianHandler {
	return &TechnicianHandler{svc: svc}
}

func (h *TechnicianHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Success: true, Count: len(users), Data: users})
}

func (h *TechnicianHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateUserRequest
	if !decodeValid(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), actor, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Data: u})
}

func (h *TechnicianHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserRequest
	if !decodeValid(w, r, &req) {
		return
	}
	u, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Data: u})
}

func (h *TechnicianHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Technician deleted"})
}
