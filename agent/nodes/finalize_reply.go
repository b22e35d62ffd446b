package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

func SaveReply(
	ctx context.Context,
	in *GraphState,
	store contractx.HistoryStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := store.Append(ctx, in.SessionID, contractx.AssistantMessage(in.Reply)); err != nil {
		return nil, fmt.Errorf("append assistant reply: %w", err)
	}
	return in, nil
}

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: conversation ended without a reply", contractx.ErrValidation)
	}
	return GraphOutput{Reply: reply, Steps: in.Steps}, nil
}
