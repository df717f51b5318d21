package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ro-service/api/internal/application/customer"
	"github.com/ro-service/api/internal/application/notification"
	"github.com/ro-service/api/internal/application/record"
	"github.com/ro-service/api/internal/application/technician"
	"github.com/ro-service/api/internal/application/upload"
	"github.com/ro-service/api/internal/config"
	"github.com/ro-service/api/internal/domain"
	"github.com/ro-service/api/internal/transport/http/handler"
	appmiddleware "github.com/ro-service/api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	CustomerRepo     CustomerRepository
	RecordRepo       RecordRepository
	NotificationRepo NotificationRepository
	UserRepo         UserRepository
	ObjectStore      ObjectStore
	Verifier         appmiddleware.TokenVerifier
	Reminder         handler.Runner
	Logger           *zap.Logger
}

// NewRouter builds and returns the application router. ctx bounds the
// router's background goroutines.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 1 request every 10 seconds, burst of 3, for the manual trigger.
	triggerRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(0.1), 3)

	customerSvc := customer.NewService(customer.ServiceDeps{
		CustomerRepo: deps.CustomerRepo,
		RecordRepo:   deps.RecordRepo,
		Location:     cfg.Timezone,
		Logger:       deps.Logger,
	})
	recordSvc := record.NewService(record.ServiceDeps{
		RecordRepo:   deps.RecordRepo,
		CustomerRepo: deps.CustomerRepo,
		Location:     cfg.Timezone,
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		LogRepo:      deps.NotificationRepo,
		RecordRepo:   deps.RecordRepo,
		CustomerRepo: deps.CustomerRepo,
	})
	techSvc := technician.NewService(deps.UserRepo)
	uploadSvc := upload.NewService(deps.ObjectStore, cfg.UploadMaxBytes)

	healthH := handler.NewHealthHandler()
	customerH := handler.NewCustomerHandler(customerSvc, recordSvc)
	recordH := handler.NewRecordHandler(recordSvc)
	notifH := handler.NewNotificationHandler(notifSvc, deps.Reminder, cfg.Timezone, cfg.Notify.RunTimeout, deps.Logger)
	techH := handler.NewTechnicianHandler(techSvc)
	uploadH := handler.NewUploadHandler(uploadSvc, cfg.UploadMaxBytes)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", healthH.Health)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.Verifier))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerH.List)
				r.Post("/", customerH.Create)
				r.Get("/{id}", customerH.Get)
				r.Put("/{id}", customerH.Update)
				r.Delete("/{id}", customerH.Delete)
				r.Get("/{id}/records", customerH.ListRecords)
				r.Post("/{id}/records", customerH.CreateRecord)
			})

			r.Route("/records", func(r chi.Router) {
				r.Get("/upcoming/all", recordH.Upcoming)
				r.Get("/{id}", recordH.Get)
				r.Put("/{id}", recordH.Update)
				r.Delete("/{id}", recordH.Delete)
			})

			r.Get("/notifications", notifH.List)
			r.Put("/technicians/profile", techH.UpdateProfile)
			r.Post("/upload", uploadH.Image)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.With(triggerRL.Limit).Get("/notifications/trigger", notifH.Trigger)
				r.With(triggerRL.Limit).Post("/notifications/trigger", notifH.Trigger)

				r.Get("/technicians", techH.List)
				r.Put("/technicians/{id}", techH.Update)
				r.Delete("/technicians/{id}", techH.Delete)
			})
		})
	})

	return r
}
