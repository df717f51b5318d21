package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/ro-service/api/internal/domain"
	jwtinfra "github.com/ro-service/api/internal/infrastructure/jwt"
	"github.com/ro-service/api/internal/transport/http/middleware"
)

// --- helpers ---

// asActor returns r carrying the claims the auth middleware would inject.
func asActor(r *http.Request, userID, role string) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &jwtinfra.Claims{UserID: userID, Role: role}))
}

func asTechnician(r *http.Request) *http.Request { return asActor(r, "t1", domain.RoleTechnician) }

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonReq(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

var technicianActor = domain.Actor{UserID: "t1", Role: domain.RoleTechnician}

