package chi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/capture/signature"
	"github.com/marcelsud/webhook-debugger/replay"
)

/* HTTP layer DTOs for the dashboard API
 * Separate from domain entities to avoid leaking internal structure
 */

type endpointResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Path               string `json:"path"`
	HookURL            string `json:"hook_url"`
	Active             bool   `json:"active"`
	VerificationMethod string `json:"verification_method"`
}

type webhookResponse struct {
	ID                 string            `json:"id"`
	EndpointID         string            `json:"endpoint_id"`
	Method             string            `json:"method"`
	Source             string            `json:"source"`
	SourceVerified     bool              `json:"source_verified"`
	Headers            map[string]string `json:"headers"`
	Body               *string           `json:"body"`
	QueryParams        map[string]string `json:"query_params"`
	ContentType        string            `json:"content_type"`
	ReplayCount        int               `json:"replay_count"`
	LastReplayStatus   *int              `json:"last_replay_status"`
	LastReplayResponse *string           `json:"last_replay_response"`
	LastReplayAt       *time.Time        `json:"last_replay_at"`
	ReceivedAt         time.Time         `json:"received_at"`
}

type webhookListResponse struct {
	Webhooks []webhookResponse `json:"webhooks"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type webhookDetailResponse struct {
	Webhook               webhookResponse `json:"webhook"`
	SuggestedVerification string          `json:"suggested_verification"`
}

type replayRequest struct {
	URL string `json:"url"`
}

type replayResponse struct {
	Success  bool   `json:"success"`
	Status   int    `json:"status"`
	Response string `json:"response"`
}

type replayFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func toWebhookResponse(c capture.Capture) webhookResponse {
	return webhookResponse{
		ID:                 c.ID,
		EndpointID:         c.EndpointID,
		Method:             c.Method,
		Source:             c.Source,
		SourceVerified:     c.SourceVerified,
		Headers:            c.Headers,
		Body:               c.Body,
		QueryParams:        c.QueryParams,
		ContentType:        c.ContentType,
		ReplayCount:        c.ReplayCount,
		LastReplayStatus:   c.LastReplayStatus,
		LastReplayResponse: c.LastReplayResponse,
		LastReplayAt:       c.LastReplayAt,
		ReceivedAt:         c.ReceivedAt,
	}
}

// getEndpoints handles GET /api/endpoints
func getEndpoints(endpoints EndpointCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := endpoints.List()

		responses := make([]endpointResponse, 0, len(list))
		for _, ep := range list {
			responses = append(responses, endpointResponse{
				ID:                 ep.ID,
				Name:               ep.Name,
				Path:               ep.Path,
				HookURL:            "/hook/" + ep.Path,
				Active:             ep.Active,
				VerificationMethod: ep.VerificationMethod.String(),
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{"endpoints": responses})
	}
}

// getWebhooks handles GET /api/endpoints/{id}/webhooks
func getWebhooks(captures capture.UseCase, endpoints EndpointCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ep, err := endpoints.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Endpoint not found")
			return
		}

		opts, err := parseListOptions(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		page, err := captures.List(r.Context(), ep.ID, opts)
		if err != nil {
			slog.ErrorContext(r.Context(), "listing webhooks", "endpoint_id", ep.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		webhooks := make([]webhookResponse, 0, len(page.Captures))
		for _, c := range page.Captures {
			webhooks = append(webhooks, toWebhookResponse(c))
		}

		writeJSON(w, http.StatusOK, webhookListResponse{
			Webhooks: webhooks,
			Total:    page.Total,
			Limit:    page.Limit,
			Offset:   page.Offset,
		})
	}
}

func parseListOptions(r *http.Request) (capture.ListOptions, error) {
	q := r.URL.Query()
	opts := capture.ListOptions{Source: q.Get("source")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("invalid offset")
		}
		opts.Offset = n
	}
	return opts, nil
}

// getWebhook handles GET /api/webhooks/{id}
func getWebhook(captures capture.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := findCapture(w, r, captures)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, webhookDetailResponse{
			Webhook:               toWebhookResponse(c),
			SuggestedVerification: signature.Detect(capture.HeaderFromMap(c.Headers)).String(),
		})
	}
}

// postReplay handles POST /api/webhooks/{id}/replay
func postReplay(captures capture.UseCase, replayer replay.UseCase, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "Missing target URL")
			return
		}
		if _, err := replay.ValidateTarget(req.URL); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		c, ok := findCapture(w, r, captures)
		if !ok {
			return
		}

		res, err := replayer.Replay(r.Context(), c, req.URL)
		if err != nil {
			if errors.Is(err, replay.ErrInvalidTarget) || errors.Is(err, replay.ErrSchemeNotAllowed) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.ErrorContext(r.Context(), "replaying webhook", "webhook_id", c.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, replayFailure{Error: "Internal server error"})
			return
		}

		if !res.Success {
			writeJSON(w, http.StatusInternalServerError, replayFailure{Error: res.Error})
			return
		}

		writeJSON(w, http.StatusOK, replayResponse{
			Success:  true,
			Status:   res.Status,
			Response: res.Response,
		})
	}
}

func findCapture(w http.ResponseWriter, r *http.Request, captures capture.UseCase) (capture.Capture, bool) {
	c, err := captures.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, capture.ErrNotFound):
		writeError(w, http.StatusNotFound, "Webhook not found")
		return capture.Capture{}, false
	case err != nil:
		slog.ErrorContext(r.Context(), "getting webhook", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return capture.Capture{}, false
	}
	return c, true
}
