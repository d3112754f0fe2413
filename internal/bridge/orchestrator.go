// Package bridge ties the Slack events endpoint, the dedup store, the agent,
// and the Slack notifier into one idempotent event flow.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/putchi/bedrock-slack-bot-integration/internal/metrics"
)

// ErrMalformedEvent means the delivery was missing required fields. The run
// aborts with no side effects; the sender is still acked so it does not
// redeliver a payload it would only resend identically.
var ErrMalformedEvent = errors.New("malformed event")

// apologyFormat is the user-facing message for failed runs. The error detail
// is embedded so the user can quote it to support.
const apologyFormat = "Uh-oh! Something went wrong. Please try again in a few minutes or reach out to our support team if the issue persists. (Error: %v)"

// Deduper answers whether an event delivery was already handled.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// Invoker turns a question into an answer, correlated by session ID.
type Invoker interface {
	Invoke(ctx context.Context, question, sessionID string) (string, error)
}

// Notifier posts a threaded at-mention reply to the chat platform.
type Notifier interface {
	Notify(ctx context.Context, channel, text, userID, threadTS string) error
}

// Outcome labels how an orchestration run ended.
type Outcome string

const (
	OutcomeAnswered         Outcome = "answered"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeSelfMessage      Outcome = "self_message"
	OutcomeErrored          Outcome = "errored"
	OutcomeMalformed        Outcome = "malformed"
	OutcomeStoreUnavailable Outcome = "store_unavailable"
)

// Config configures the orchestrator.
type Config struct {
	BotUserID string
	Store     Deduper
	Agent     Invoker
	Notifier  Notifier
	Logger    *slog.Logger
}

// Orchestrator drives one event delivery through dedup, the agent, and the
// notifier. It holds no per-event state, so concurrent deliveries are safe as
// long as the injected clients are.
type Orchestrator struct {
	botUserID string
	store     Deduper
	agent     Invoker
	notifier  Notifier
	logger    *slog.Logger
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		botUserID: cfg.BotUserID,
		store:     cfg.Store,
		agent:     cfg.Agent,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
	}
}

// Process runs the full flow for one delivery and reports how it ended. A
// non-nil error accompanies the failure outcomes; callers ack the delivery
// regardless, since redelivery control lives in the dedup mark, not the ack.
//
// Ordering contract: the processed mark is written only after the agent has
// answered and the success notification was attempted. Failed runs never mark,
// so a redelivery of the same event ID gets a fresh attempt.
func (o *Orchestrator) Process(ctx context.Context, env Envelope) (Outcome, error) {
	if env.EventID == "" || env.Event.User == "" || env.Event.Channel == "" {
		return OutcomeMalformed, fmt.Errorf("%w: event_id=%q user=%q channel=%q",
			ErrMalformedEvent, env.EventID, env.Event.User, env.Event.Channel)
	}

	log := o.logger.With("event_id", env.EventID)

	seen, err := o.store.Seen(ctx, env.EventID)
	if err != nil {
		// Neither fail-open nor silent drop: abort without side effects and
		// let the platform's redelivery retry once the store recovers.
		log.Error("dedup check failed", "err", err)
		return OutcomeStoreUnavailable, err
	}
	if seen {
		log.Info("event already processed, skipping")
		return OutcomeDuplicate, nil
	}

	if env.Event.User == o.botUserID {
		log.Info("ignoring bot's own message")
		return OutcomeSelfMessage, nil
	}

	question := SanitizeQuestion(env.Event.Text, o.botUserID)
	sessionID := uuid.NewString()
	log.Info("invoking agent",
		"user", env.Event.User,
		"channel", env.Event.Channel,
		"session_id", sessionID,
		"question_len", len(question),
	)

	start := time.Now()
	answer, err := o.agent.Invoke(ctx, question, sessionID)
	metrics.AgentLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("agent invocation failed", "session_id", sessionID, "err", err)
		apology := fmt.Sprintf(apologyFormat, err)
		if nerr := o.notify(ctx, env, apology); nerr != nil {
			log.Error("failed to deliver apology", "err", nerr)
		}
		return OutcomeErrored, err
	}

	// Notify failures are logged but do not block the mark: a successful
	// answer is marked processed even if the post failed, trading guaranteed
	// delivery for no duplicate answers on redelivery.
	if err := o.notify(ctx, env, answer); err != nil {
		log.Error("failed to deliver answer", "err", err)
	}

	if err := o.store.Mark(ctx, env.EventID); err != nil {
		log.Error("event answered but not marked processed", "err", err)
		return OutcomeAnswered, err
	}

	log.Info("event processed", "answer_len", len(answer))
	return OutcomeAnswered, nil
}

func (o *Orchestrator) notify(ctx context.Context, env Envelope, text string) error {
	start := time.Now()
	err := o.notifier.Notify(ctx, env.Event.Channel, text, env.Event.User, env.Event.TS)
	metrics.NotifyLatency.Observe(time.Since(start).Seconds())
	return err
}
