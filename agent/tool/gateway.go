package tool

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/metrics"
	schedulingx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/scheduling"
)

// Scheduler is the appointment tool set the gateway dispatches to.
type Scheduler interface {
	ValidateDate(ctx context.Context, month, day int) (string, error)
	NextDayOfWeek(ctx context.Context, startDate, weekday string) (string, error)
	WriteWithValidation(ctx context.Context, line string) (string, error)
	Modify(ctx context.Context, req schedulingx.ModifyRequest) (string, error)
	Erase(ctx context.Context, code string) (string, error)
}

// Handler runs one tool from its raw JSON arguments.
type Handler func(ctx context.Context, arguments string) (Result, error)

var _ contractx.ToolGateway = (*Gateway)(nil)

// Gateway executes tool calls. A failing, unknown or panicking tool never
// aborts the loop; it becomes an error message tagged with the call id.
type Gateway struct {
	handlers map[string]Handler
	timeout  time.Duration
}

type GatewayOption func(*Gateway)

func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.timeout = d
	}
}

func WithHandler(name string, h Handler) GatewayOption {
	return func(g *Gateway) {
		if h != nil {
			g.handlers[name] = h
		}
	}
}

// NewGateway builds the lookup table for the scheduling tools. kb may be nil,
// in which case lookup_project_info is not registered.
func NewGateway(svc Scheduler, kb contractx.KnowledgeBase, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		handlers: map[string]Handler{
			ToolValidateDate: bind(func(ctx context.Context, a validateDateArgs) (Result, error) {
				if a.Month == 0 || a.Day == 0 {
					return Fail("month and day are required"), nil
				}
				return text(svc.ValidateDate(ctx, int(a.Month), int(a.Day)))
			}),
			ToolNextDay: bind(func(ctx context.Context, a nextDayArgs) (Result, error) {
				if strings.TrimSpace(a.StartDate) == "" || strings.TrimSpace(a.Weekday) == "" {
					return Fail("start_date and weekday are required"), nil
				}
				return text(svc.NextDayOfWeek(ctx, a.StartDate, a.Weekday))
			}),
			ToolWriteSheet: bind(func(ctx context.Context, a writeSheetArgs) (Result, error) {
				if strings.TrimSpace(a.CSVLine) == "" {
					return Fail("csv_line is required"), nil
				}
				return text(svc.WriteWithValidation(ctx, a.CSVLine))
			}),
			ToolModifySheet: bind(func(ctx context.Context, a modifySheetArgs) (Result, error) {
				if strings.TrimSpace(a.Code) == "" {
					return Fail("code is required"), nil
				}
				return text(svc.Modify(ctx, schedulingx.ModifyRequest{
					Code:     a.Code,
					Hour:     deref(a.Hour),
					Date:     deref(a.Date),
					Modality: deref(a.Modality),
				}))
			}),
			ToolEraseSheet: bind(func(ctx context.Context, a eraseSheetArgs) (Result, error) {
				if strings.TrimSpace(a.Code) == "" {
					return Fail("code is required"), nil
				}
				return text(svc.Erase(ctx, a.Code))
			}),
		},
	}

	if kb != nil {
		g.handlers[ToolLookupInfo] = bind(func(ctx context.Context, a lookupInfoArgs) (Result, error) {
			if strings.TrimSpace(a.Query) == "" {
				return Fail("query is required"), nil
			}
			return text(kb.Search(ctx, a.Query))
		})
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Has reports whether name is registered.
func (g *Gateway) Has(name string) bool {
	_, ok := g.handlers[name]
	return ok
}

// Execute runs calls in order and returns one tool message per call.
func (g *Gateway) Execute(ctx context.Context, calls []contractx.ToolCall) []contractx.Message {
	out := make([]contractx.Message, 0, len(calls))
	for _, call := range calls {
		start := time.Now()
		res, status := g.run(ctx, call)
		elapsed := time.Since(start)

		metricsx.ToolCallsTotal.WithLabelValues(call.Name, status).Inc()
		metricsx.ToolDuration.WithLabelValues(call.Name).Observe(elapsed.Seconds())

		event := log.Info()
		if status != metricsx.StatusOK {
			event = log.Warn().Str("diagnostic", res.Diagnostic)
		}
		event.
			Str("tool", call.Name).
			Str("call_id", call.ID).
			Str("status", status).
			Dur("elapsed", elapsed).
			Msg("tool executed")

		out = append(out, contractx.ToolMessage(call.ID, res.Content()))
	}
	return out
}

func (g *Gateway) run(ctx context.Context, call contractx.ToolCall) (res Result, status string) {
	h, ok := g.handlers[call.Name]
	if !ok {
		return Failf("unknown tool %q", call.Name), metricsx.StatusFail
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", call.Name).Interface("panic", r).Msg("tool panicked")
			res, status = Failf("tool %s panicked: %v", call.Name, r), metricsx.StatusError
		}
	}()

	out, err := h(ctx, call.Arguments)
	if err != nil {
		log.Error().Err(err).Str("tool", call.Name).Str("call_id", call.ID).Msg("tool failed")
		return Fail(err.Error()), metricsx.StatusError
	}
	if out.Failed() {
		return out, metricsx.StatusFail
	}
	return out, metricsx.StatusOK
}

func bind[A any](fn func(ctx context.Context, args A) (Result, error)) Handler {
	return func(ctx context.Context, arguments string) (Result, error) {
		var args A
		if err := decodeArgs(arguments, &args); err != nil {
			return Fail(err.Error()), nil
		}
		return fn(ctx, args)
	}
}

func text(s string, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Ok(s), nil
}

