package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/metrics"
	nodex "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/nodes"
	statex "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidUser    = nodex.ErrInvalidUser
)

type Config struct {
	HistoryLimit    int           `split_words:"true" default:"20"`
	MaxSteps        int           `split_words:"true" default:"8"`
	MaxEmptyRetries int           `split_words:"true" default:"3"`
	DecisionTimeout time.Duration `split_words:"true" default:"45s"`
	ToolTimeout     time.Duration `split_words:"true" default:"20s"`
}

func (c Config) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive", contractx.ErrValidation)
	}
	if c.MaxEmptyRetries < 0 {
		return fmt.Errorf("%w: max empty retries must not be negative", contractx.ErrValidation)
	}
	return nil
}

// Orchestrator runs one inbound message through the conversation pipeline.
type Orchestrator struct {
	history contractx.HistoryStore
	decider contractx.Decider
	tools   contractx.ToolGateway
	cfg     Config

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks       *sessionLocks

	now func() time.Time
}

type Option func(*Orchestrator)

// WithClock sets the clock; it should return time in the scheduling timezone.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(
	history contractx.HistoryStore,
	decider contractx.Decider,
	tools contractx.ToolGateway,
	cfg Config,
	opts ...Option,
) (*Orchestrator, error) {
	if history == nil {
		return nil, errors.New("history store is required")
	}
	if decider == nil {
		return nil, errors.New("decision service is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 8
	}

	o := &Orchestrator{
		history: history,
		decider: decider,
		tools:   tools,
		cfg:     cfg,
		locks:   newSessionLocks(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage answers one user message. Messages of the same session are
// processed one at a time.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID string, text string) (string, error) {
	key := statex.SessionID(userID, o.now())
	unlock, err := o.locks.acquire(ctx, key)
	if err != nil {
		return "", fmt.Errorf("wait for session %s: %w", key, err)
	}
	defer unlock()

	start := time.Now()
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		UserID: userID,
		Text:   text,
	})
	if err != nil {
		metricsx.MessagesTotal.WithLabelValues(metricsx.StatusError).Inc()
		log.Error().Err(err).Str("session_id", key).Msg("handle message failed")
		return "", err
	}

	metricsx.MessagesTotal.WithLabelValues(metricsx.StatusOK).Inc()
	metricsx.LoopSteps.Observe(float64(out.Steps))
	log.Info().
		Str("session_id", key).
		Int("steps", out.Steps).
		Dur("elapsed", time.Since(start)).
		Msg("message answered")
	return out.Reply, nil
}
