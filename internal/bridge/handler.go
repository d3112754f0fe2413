package bridge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github.com/putchi/bedrock-slack-bot-integration/internal/metrics"
)

const maxBodyBytes = 1 << 20 // Slack event payloads are small; cap at 1MB

// HandlerConfig configures the events endpoint.
type HandlerConfig struct {
	Orchestrator  *Orchestrator
	SigningSecret string // empty disables signature verification
	Timeout       time.Duration
	Logger        *slog.Logger
}

// Handler is the Slack Events API endpoint. It verifies signatures, answers
// the url_verification handshake, and runs the orchestrator for everything
// else. Whatever happens internally, deliveries are acked with 200 so Slack's
// redelivery is driven by the dedup mark, not by HTTP status.
type Handler struct {
	orch          *Orchestrator
	signingSecret string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewHandler creates the events endpoint handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Handler{
		orch:          cfg.Orchestrator,
		signingSecret: cfg.SigningSecret,
		timeout:       cfg.Timeout,
		logger:        cfg.Logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.signingSecret != "" {
		verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
		if err != nil {
			http.Error(w, "Missing signature", http.StatusUnauthorized)
			return
		}
		verifier.Write(body)
		if err := verifier.Ensure(); err != nil {
			http.Error(w, "Invalid signature", http.StatusForbidden)
			return
		}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Redelivering an unparseable body would only resend it identically.
		h.logger.Warn("unparseable event body", "err", err)
		metrics.EventsTotal(string(OutcomeMalformed)).Inc()
		h.ack(w)
		return
	}

	if env.Type == "url_verification" {
		h.logger.Info("answering url_verification handshake")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": env.Challenge})
		return
	}

	if retry := r.Header.Get("X-Slack-Retry-Num"); retry != "" {
		h.logger.Info("redelivered event",
			"event_id", env.EventID,
			"retry_num", retry,
			"retry_reason", r.Header.Get("X-Slack-Retry-Reason"),
		)
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	outcome, err := h.orch.Process(ctx, env)
	if err != nil {
		h.logger.Error("event processing failed", "event_id", env.EventID, "outcome", outcome, "err", err)
	}
	metrics.EventsTotal(string(outcome)).Inc()

	h.ack(w)
}

func (h *Handler) ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Success"})
}
