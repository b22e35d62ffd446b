package contract

import "context"

type Decider interface {
	Decide(ctx context.Context, req DecisionRequest) (Decision, error)
}

// ToolGateway runs the requested calls and returns one tool message per call,
// in call order. Tool failures are reported inside the messages.
type ToolGateway interface {
	Execute(ctx context.Context, calls []ToolCall) []Message
}

type HistoryStore interface {
	Load(ctx context.Context, sessionID string) ([]Message, error)
	Append(ctx context.Context, sessionID string, msgs ...Message) error
}

type Messenger interface {
	SendText(ctx context.Context, userID string, text string) error
	SendMedia(ctx context.Context, userID string, mediaURL string) error
}

type KnowledgeBase interface {
	Search(ctx context.Context, query string) (string, error)
}
