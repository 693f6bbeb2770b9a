package persona

import "strings"

// Template fallback generator: a deterministic, side-effect-free mapping
// from (message, persona, culture) to a canned but message-aware response,
// used when the generation engine is unavailable or produces degenerate
// output. The table below is data, not closures, so it is testable and
// serializable; {reaction} and {message} are the interpolation points.

// Reaction classes, checked in fixed priority order; first match wins.
type reactionClass int

const (
	reactionQuestion reactionClass = iota
	reactionDistress
	reactionPositive
	reactionWork
	reactionRelationship
	reactionGeneric
)

var reactionKeywords = []struct {
	class reactionClass
	words []string
}{
	{reactionDistress, []string{"sad", "upset", "worried", "stressed"}},
	{reactionPositive, []string{"happy", "excited", "good", "great", "awesome"}},
	{reactionWork, []string{"work", "job", "career"}},
	{reactionRelationship, []string{"love", "relationship", "partner"}},
}

var reactionFragments = map[reactionClass]string{
	reactionQuestion:     "That's a really interesting question!",
	reactionDistress:     "I can hear that you're going through something tough.",
	reactionPositive:     "I love hearing positive energy from you!",
	reactionWork:         "Work stuff can be really challenging sometimes.",
	reactionRelationship: "Relationships are such an important part of life.",
	reactionGeneric:      "I find what you're saying really interesting.",
}

// classify picks the reaction class for a message by shallow lexical cues.
// Question mark beats every keyword class.
func classify(message string) reactionClass {
	if strings.Contains(message, "?") {
		return reactionQuestion
	}
	lower := strings.ToLower(message)
	for _, rk := range reactionKeywords {
		for _, w := range rk.words {
			if strings.Contains(lower, w) {
				return rk.class
			}
		}
	}
	return reactionGeneric
}

// fallbackTemplates is the persona × culture response table. Every
// registered built-in combination has an entry; {reaction} expands to the
// classified fragment and {message} to the verbatim user message.
var fallbackTemplates = map[string]map[string]string{
	"friend": {
		"delhi":    "Hey! {reaction} What do you think about this? I'm here to support you!",
		"japanese": "Hello friend! {reaction} Please share more of your thoughts with me.",
		"parisian": "Bonjour mon ami! {reaction} I find this quite fascinating!",
		"berlin":   "Hey there! {reaction} Let's talk about this honestly.",
	},
	"mentor": {
		"delhi":    "I see you're thinking about: '{message}'. This is a great learning opportunity. What insights have you gained so far?",
		"japanese": "Thank you for sharing: '{message}'. Let's explore this wisdom together mindfully.",
		"parisian": "Ah, '{message}' - how intellectually stimulating! Let me guide you through this thought.",
		"berlin":   "Good question about '{message}'. Let's approach this systematically and learn together.",
	},
	"romantic": {
		"delhi":    "My dear, when you say '{message}', it touches my heart. Tell me more about what you're feeling.",
		"japanese": "Sweetheart, '{message}' shows your beautiful mind. I love how you think about things.",
		"parisian": "Mon amour, '{message}' is so poetic. Share more of your beautiful thoughts with me.",
		"berlin":   "My love, I appreciate you sharing '{message}' with me. You always make me think.",
	},
	"professional": {
		"delhi":    "Regarding '{message}' - let's analyze this professionally. What are your objectives here?",
		"japanese": "About '{message}' - I think we can work on this efficiently. What's our next step?",
		"parisian": "Concerning '{message}' - this is an excellent point. How shall we proceed creatively?",
		"berlin":   "About '{message}' - let's be direct and solution-focused. What do you need to achieve?",
	},
	"therapist": {
		"delhi":    "Thank you for sharing '{message}' with me. How does this make you feel? I'm here to listen.",
		"japanese": "I hear you saying '{message}'. Let's explore these feelings together in this safe space.",
		"parisian": "You mentioned '{message}' - that sounds important to you. What emotions are you experiencing?",
		"berlin":   "When you say '{message}', I want to understand. Can you tell me more about this honestly?",
	},
}

// genericFallback covers combinations outside the table (pack-added
// personas or cultures without a dedicated template).
const genericFallback = "Thank you for sharing '{message}' with me. I'd love to hear more about your thoughts on this topic!"

// FallbackResponse produces the templated response for a message under a
// persona × culture pair. It is total: unknown keys resolve to registry
// defaults first, and any registered combination missing from the template
// table falls through to a generic acknowledgment echoing the message.
func FallbackResponse(reg *Registry, message, personaKey, cultureKey string) string {
	p := reg.LookupPersona(personaKey)
	c := reg.LookupCulture(cultureKey)

	tmpl := genericFallback
	if byCulture, ok := fallbackTemplates[p.Key]; ok {
		if t, ok := byCulture[c.Key]; ok {
			tmpl = t
		}
	}

	out := strings.ReplaceAll(tmpl, "{reaction}", reactionFragments[classify(message)])
	out = strings.ReplaceAll(out, "{message}", message)
	return out
}
