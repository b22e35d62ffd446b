package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	statex "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/state"
)

func LoadHistory(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
	limit int,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	msgs, err := store.Load(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	// the user message is appended next, so leave room for it
	if limit > 1 {
		limit--
	}
	in.History = statex.Trim(msgs, limit)
	return in, nil
}

// AppendUserMessage persists the inbound text before the loop runs so a
// failed turn still leaves the question in the transcript.
func AppendUserMessage(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	msg := contractx.UserMessage(in.Text)
	if err := store.Append(ctx, in.SessionID, msg); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}
	in.History = append(in.History, msg)
	return in, nil
}
