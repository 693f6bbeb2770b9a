package personachat

// Persona re-exports — the types callers need to drive the pipeline from
// the root package:
//
//	turns := []personachat.ConversationTurn{{Role: personachat.RoleUser, Content: "hi"}}
//
// For the full catalog API (registry, composers, packs), import the
// sub-package directly:
//
//	import "github.com/cultureweave/personachat/persona"

import "github.com/cultureweave/personachat/persona"

// ConversationTurn is one message of the running dialogue.
type ConversationTurn = persona.Turn

// Role identifies the author of a conversation turn.
type Role = persona.Role

const (
	RoleUser      = persona.RoleUser
	RoleAssistant = persona.RoleAssistant
)

// NewRegistry returns the built-in persona/culture/style catalog.
var NewRegistry = persona.NewRegistry
