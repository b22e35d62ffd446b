package assistant

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/metrics"
	toolx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/tool"
)

const promptTimeLayout = "2006-01-02 15:04:05"

var _ contractx.Decider = (*Service)(nil)

// Service asks the tool-bound chat model for the next step of a conversation.
type Service struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func NewService(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	withKnowledge bool,
) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: system prompt is required", contractx.ErrValidation)
	}

	toolModel, err := chatModel.WithTools(toolx.Catalog(withKnowledge))
	if err != nil {
		return nil, fmt.Errorf("%w: bind assistant tools: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileDecisionGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile decision graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Service{runner: runner}, nil
}

func (s *Service) Decide(ctx context.Context, req contractx.DecisionRequest) (contractx.Decision, error) {
	msg, err := s.runner.Invoke(ctx, map[string]any{
		varTime:     req.Now.Format(promptTimeLayout),
		varUserInfo: req.UserID,
		varMessages: toSchemaMessages(req.Messages),
	})
	if err != nil {
		metricsx.DecisionsTotal.WithLabelValues(metricsx.StatusError).Inc()
		return contractx.Decision{}, fmt.Errorf("%w: assistant invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		metricsx.DecisionsTotal.WithLabelValues(metricsx.StatusError).Inc()
		return contractx.Decision{}, fmt.Errorf("%w: nil assistant response", contractx.ErrSchemaViolation)
	}

	calls, err := toToolCalls(msg.ToolCalls)
	if err != nil {
		metricsx.DecisionsTotal.WithLabelValues(metricsx.StatusError).Inc()
		return contractx.Decision{}, err
	}

	decision := contractx.Decision{
		ToolCalls: calls,
		Text:      strings.TrimSpace(msg.Content),
	}

	outcome := "empty"
	switch {
	case len(decision.ToolCalls) > 0:
		outcome = "tools"
	case decision.Text != "":
		outcome = "text"
	}
	metricsx.DecisionsTotal.WithLabelValues(outcome).Inc()
	log.Debug().
		Str("user_id", req.UserID).
		Str("outcome", outcome).
		Int("tool_calls", len(calls)).
		Msg("assistant decided")

	return decision, nil
}

func toSchemaMessages(msgs []contractx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case contractx.RoleUser:
			out = append(out, schema.UserMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, fromToolCalls(m.ToolCalls)))
		case contractx.RoleTool:
			out = append(out, schema.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func fromToolCalls(calls []contractx.ToolCall) []schema.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]schema.ToolCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, schema.ToolCall{
			ID:   c.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      c.Name,
				Arguments: c.Arguments,
			},
		})
	}
	return out
}

// toToolCalls keeps the model's ids so tool results can be matched back.
// Calls without an id get a fresh one.
func toToolCalls(calls []schema.ToolCall) ([]contractx.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]contractx.ToolCall, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		id := strings.TrimSpace(call.ID)
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		args := strings.TrimSpace(call.Function.Arguments)
		if args == "" {
			args = "{}"
		}
		out = append(out, contractx.ToolCall{ID: id, Name: name, Arguments: args})
	}
	return out, nil
}
