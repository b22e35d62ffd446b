package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	statex "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidUser    = errors.New("user id is empty")
)

type GraphInput struct {
	UserID string
	Text   string
}

type GraphOutput struct {
	Reply string
	Steps int
}

// GraphState travels through the per-message pipeline. History holds the
// trimmed transcript the decision service sees, newest last.
type GraphState struct {
	UserID    string
	SessionID string
	Text      string
	Now       time.Time

	History []contractx.Message
	Reply   string
	Steps   int
}

// ValidateRequest rejects blank input and derives the day-scoped session id.
// nowFn must return time in the scheduling timezone.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUser
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	now := nowFn()
	return &GraphState{
		UserID:    userID,
		SessionID: statex.SessionID(userID, now),
		Text:      text,
		Now:       now,
	}, nil
}
