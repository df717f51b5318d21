package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ro-service/api/internal/application/customer"
	"github.com/ro-service/api/internal/application/record"
	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/transport/http/middleware"
)

// CustomerHandler handles customer CRUD and the nested record endpoints.
type CustomerHandler struct {
	svc     customer.Service
	records record.Service
}

func NewCustomerHandler(svc customer.Service, records record.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc, records: records}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	res, err := h.svc.List(r.Context(), actor, customer.ListQuery{
		Search: r.URL.Query().Get("search"),
		Page:   pageParams(r),
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(res))
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	c, err := h.svc.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Data: c})
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateCustomerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.svc.Create(r.Context(), actor, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Success: true, Data: c})
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateCustomerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.svc.Update(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Data: c})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Customer and associated records deleted"})
}

func (h *CustomerHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	recs, err := h.records.ListForCustomer(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Success: true, Count: len(recs), Data: recs})
}

func (h *CustomerHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateRecordRequest
	if !decodeValid(w, r, &req) {
		return
	}
	rec, err := h.records.Create(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Success: true, Data: rec})
}
