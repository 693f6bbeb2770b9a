package persona

import "time"

// HistoryWindow is the number of trailing conversation turns woven into the
// chat prompt. History lifetime is owned by the caller; the composer only
// reads this bounded window.
const HistoryWindow = 3

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Display returns the role as rendered in prompts ("User" / "Assistant").
// Unrecognized roles render as User.
func (r Role) Display() string {
	if r == RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// Turn is one message of the running dialogue.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// LastTurns returns the trailing n turns of history in chronological order.
func LastTurns(history []Turn, n int) []Turn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}
