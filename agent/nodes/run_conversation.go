package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

// NudgeMessage is shown to the model, once, after an answer with no text and no tool calls.
const NudgeMessage = "Respond with a real output."

type LoopConfig struct {
	MaxSteps        int
	MaxEmptyRetries int
	DecisionTimeout time.Duration
}

// RunConversation alternates decisions and tool execution until the model
// answers with text. The loop ends with ErrLoopExhausted after MaxSteps
// decisions, or with ErrEmptyResponse after MaxEmptyRetries consecutive
// empty answers. Tool traffic stays local to the turn.
func RunConversation(
	ctx context.Context,
	in *GraphState,
	decider contractx.Decider,
	tools contractx.ToolGateway,
	cfg LoopConfig,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 8
	}
	if cfg.MaxEmptyRetries < 0 {
		cfg.MaxEmptyRetries = 0
	}

	transcript := make([]contractx.Message, len(in.History))
	copy(transcript, in.History)

	empty := 0
	for step := 1; step <= cfg.MaxSteps; step++ {
		in.Steps = step

		msgs := transcript
		if empty > 0 {
			msgs = make([]contractx.Message, 0, len(transcript)+1)
			msgs = append(msgs, transcript...)
			msgs = append(msgs, contractx.UserMessage(NudgeMessage))
		}

		decision, err := decide(ctx, decider, contractx.DecisionRequest{
			Messages: msgs,
			UserID:   in.UserID,
			Now:      in.Now,
		}, cfg.DecisionTimeout)
		if err != nil {
			return nil, err
		}

		if len(decision.ToolCalls) > 0 {
			results := tools.Execute(ctx, decision.ToolCalls)
			transcript = append(transcript, contractx.AssistantMessage(decision.Text, decision.ToolCalls...))
			transcript = append(transcript, results...)
			empty = 0
			log.Debug().
				Str("session_id", in.SessionID).
				Int("step", step).
				Int("tool_calls", len(decision.ToolCalls)).
				Msg("tools executed")
			continue
		}

		if decision.Text != "" {
			in.Reply = decision.Text
			return in, nil
		}

		empty++
		log.Warn().
			Str("session_id", in.SessionID).
			Int("step", step).
			Int("empty_answers", empty).
			Msg("model returned an empty answer")
		if empty > cfg.MaxEmptyRetries {
			return nil, fmt.Errorf("%w: %d empty answers in a row", contractx.ErrEmptyResponse, empty)
		}
	}

	return nil, fmt.Errorf("%w: no answer after %d decisions", contractx.ErrLoopExhausted, cfg.MaxSteps)
}

func decide(
	ctx context.Context,
	decider contractx.Decider,
	req contractx.DecisionRequest,
	timeout time.Duration,
) (contractx.Decision, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return decider.Decide(ctx, req)
}
