package state

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

const sessionDateLayout = "2006-01-02"

// SessionID scopes a user's conversation to one calendar day in now's location.
func SessionID(userID string, now time.Time) string {
	return strings.TrimSpace(userID) + "#" + now.Format(sessionDateLayout)
}

// Trim keeps at most limit trailing messages and drops any leading entries
// until the window starts on a user message. limit <= 0 disables the cap.
func Trim(msgs []contractx.Message, limit int) []contractx.Message {
	start := 0
	if limit > 0 && len(msgs) > limit {
		start = len(msgs) - limit
	}
	for start < len(msgs) && msgs[start].Role != contractx.RoleUser {
		start++
	}

	out := make([]contractx.Message, len(msgs)-start)
	copy(out, msgs[start:])
	return out
}
