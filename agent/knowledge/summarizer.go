package knowledge

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

// GraphSummarizer asks a chat model for an answer grounded on retrieved chunks.
type GraphSummarizer struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func NewGraphSummarizer(ctx context.Context, chatModel einomodel.BaseChatModel, promptText string) (*GraphSummarizer, error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(promptText),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add knowledge prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add knowledge model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add knowledge edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add knowledge edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add knowledge edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("knowledge.summarize_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile knowledge graph: %w", err)
	}
	return &GraphSummarizer{runner: runner}, nil
}

func (s *GraphSummarizer) Summarize(ctx context.Context, query string, chunks []string) (string, error) {
	msg, err := s.runner.Invoke(ctx, map[string]any{
		"context": strings.Join(chunks, "\n\n"),
		"query":   query,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty knowledge answer", contractx.ErrEmptyResponse)
	}
	return strings.TrimSpace(msg.Content), nil
}
