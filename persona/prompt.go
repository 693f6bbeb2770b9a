package persona

import (
	"fmt"
	"strings"
	"unicode"
)

// Prompt composition is deterministic and pure: the same keys always produce
// byte-identical output. The composed prompt layers, in order: persona
// identity framing, trait list, cultural characteristics, communication
// style, the persona's directive block, and a closing reminder.

// ExampleUserLine is the fixed user line of the worked example exchange
// embedded in every chat prompt to steer response style.
const ExampleUserLine = "I had a long day at work today."

// ComposePersonaPrompt builds the system prompt for a persona × culture
// pair. Unknown keys resolve to the registry defaults.
func ComposePersonaPrompt(reg *Registry, personaKey, cultureKey string) string {
	p := reg.LookupPersona(personaKey)
	c := reg.LookupCulture(cultureKey)

	var b strings.Builder

	fmt.Fprintf(&b, "You are a %s with a %s cultural background.\n\n", p.Name, c.Name)

	b.WriteString("PERSONALITY TRAITS:\n")
	b.WriteString(titleWords(strings.Join(p.Traits, ", ")))
	b.WriteString("\n\n")

	b.WriteString("CULTURAL BACKGROUND:\n")
	fmt.Fprintf(&b, "You embody the following %s characteristics:\n", c.Name)
	for _, ch := range c.Characteristics {
		fmt.Fprintf(&b, "- %s\n", ch)
	}
	b.WriteString("\n")

	b.WriteString("COMMUNICATION STYLE:\n")
	fmt.Fprintf(&b, "- Be %s\n", strings.ToLower(p.Description))
	fmt.Fprintf(&b, "- Naturally incorporate cultural elements: %s\n", strings.Join(c.Elements, ", "))
	fmt.Fprintf(&b, "- Use appropriate greetings when suitable: %s\n", strings.Join(c.Greetings, ", "))
	b.WriteString("- Maintain authenticity without stereotyping\n")
	b.WriteString("- Be conversational and engaging\n\n")

	b.WriteString("SPECIFIC INSTRUCTIONS:\n")
	b.WriteString(directiveFor(p.Key))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Remember: You are having a natural conversation. Don't announce your role or cultural background unless it comes up naturally. Let your personality and cultural awareness show through your responses, word choices, and perspectives. Be authentic, helpful, and engaging while staying true to your %s nature and %s cultural background.", p.Name, c.Name)

	return b.String()
}

// ComposeChatPrompt builds the full generation prompt for one chat turn:
// persona prompt, a worked example exchange, the last three conversation
// turns, then the generation cursor. The output always ends with the literal
// suffix "User: <message>\nAssistant:".
func ComposeChatPrompt(reg *Registry, personaKey, cultureKey string, history []Turn, message string) string {
	var b strings.Builder

	b.WriteString(ComposePersonaPrompt(reg, personaKey, cultureKey))
	b.WriteString("\n\n")

	b.WriteString("Example exchange:\n")
	fmt.Fprintf(&b, "User: %s\n", ExampleUserLine)
	fmt.Fprintf(&b, "Assistant: %s\n\n", FallbackResponse(reg, ExampleUserLine, personaKey, cultureKey))

	b.WriteString("Conversation:\n")
	for _, turn := range LastTurns(history, HistoryWindow) {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role.Display(), turn.Content)
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", message)

	return b.String()
}

// ComposeStylePrompt builds the free-form text generation prompt. Persona
// and culture keys are optional; when either is set, a voice line framing
// the resolved pair is added.
func ComposeStylePrompt(reg *Registry, styleKey, personaKey, cultureKey, userPrompt string) string {
	s := reg.LookupStyle(styleKey)

	var b strings.Builder
	b.WriteString(s.Prompt)
	b.WriteString("\n\n")

	if personaKey != "" || cultureKey != "" {
		p := reg.LookupPersona(personaKey)
		c := reg.LookupCulture(cultureKey)
		fmt.Fprintf(&b, "Adopt the voice of a %s with a %s cultural sensibility.\n\n", p.Name, c.Name)
	}

	fmt.Fprintf(&b, "User Request: %s\n\n", userPrompt)
	fmt.Fprintf(&b, "Please write a response that fulfills this request in the %s style described above:", strings.ToLower(s.Name))

	return b.String()
}

// titleWords uppercases every letter that follows a non-letter, so hyphenated
// traits render as "Fun-Loving", not "Fun-loving". Other letters are left
// untouched.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		if isLetter && !prevLetter {
			r = unicode.ToUpper(r)
		}
		prevLetter = isLetter
		b.WriteRune(r)
	}
	return b.String()
}
