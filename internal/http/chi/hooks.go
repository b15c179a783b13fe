package chi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-debugger/capture"
)

// receivedAtLayout is millisecond precision with a Z suffix for UTC
const receivedAtLayout = "2006-01-02T15:04:05.000Z07:00"

type hookResponse struct {
	Status     string `json:"status"`
	WebhookID  string `json:"webhook_id,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Verified   *bool  `json:"verified,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"`
}

var hookError = hookResponse{Status: "error"}

// receiveHook handles ANY /hook/{path}
func receiveHook(captures capture.UseCase, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic while capturing webhook", "panic", rec)
				writeJSON(w, http.StatusOK, hookError)
			}
		}()

		path := chi.URLParam(r, "path")

		receipt, err := captures.Receive(r.Context(), path, r)
		if err != nil {
			level := slog.LevelError
			if errors.Is(err, capture.ErrEndpointNotFound) || errors.Is(err, capture.ErrEndpointInactive) {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "webhook not captured", "path", path, "error", err)
			writeJSON(w, http.StatusOK, hookError)
			return
		}

		verified := receipt.Verified
		writeJSON(w, http.StatusOK, hookResponse{
			Status:     "captured",
			WebhookID:  receipt.CaptureID,
			Endpoint:   receipt.Endpoint,
			Verified:   &verified,
			ReceivedAt: receipt.ReceivedAt.UTC().Format(receivedAtLayout),
		})
	}
}
