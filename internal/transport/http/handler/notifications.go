package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ro-service/api/internal/application/notification"
	"github.com/ro-service/api/internal/application/reminder"
	"github.com/ro-service/api/internal/pkg/logger"
)

// Runner is satisfied by *reminder.Service.
type Runner interface {
	Run(ctx context.Context, now time.Time) reminder.RunResult
}

// NotificationHandler handles the notification log and the manual trigger.
type NotificationHandler struct {
	svc     notification.Service
	runner  Runner
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// NewNotificationHandler builds the handler. Manual runs are bounded by a
// positive timeout, not by the request.
func NewNotificationHandler(svc notification.Service, runner Runner, loc *time.Location, timeout time.Duration, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, runner: runner, loc: loc, timeout: timeout, now: time.Now, log: logger.OrNop(log)}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.List(r.Context(), pageParams(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(res))
}

// Trigger runs one due-service check and returns its result.
func (h *NotificationHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	h.log.Info("manual due-service check triggered", zap.String("remote", r.RemoteAddr))
	// A client hang-up must not cut a run short between sending and logging.
	ctx := context.WithoutCancel(r.Context())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res := h.runner.Run(ctx, h.now().In(h.loc))
	if !res.Success {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
