package persona

import (
	"strings"
	"testing"
)

func TestFallbackResponse_QuestionBeatsKeywords(t *testing.T) {
	// "fun" is not a keyword, but even with one present the question mark
	// must win the priority order.
	got := FallbackResponse(NewRegistry(), "Is this fun?", "friend", "delhi")
	if !strings.Contains(got, "That's a really interesting question!") {
		t.Fatalf("expected question fragment, got %q", got)
	}
	if strings.Contains(got, "I love hearing positive energy from you!") {
		t.Fatalf("positivity fragment should not appear, got %q", got)
	}

	got = FallbackResponse(NewRegistry(), "Isn't work great?", "friend", "delhi")
	if !strings.Contains(got, "That's a really interesting question!") {
		t.Fatalf("question mark should beat work/positivity keywords, got %q", got)
	}
}

func TestFallbackResponse_KeywordPriority(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		message  string
		fragment string
	}{
		{"I'm feeling sad today", "I can hear that you're going through something tough."},
		{"I'm sad but my job is good", "I can hear that you're going through something tough."},
		{"Today was awesome", "I love hearing positive energy from you!"},
		{"My job is exhausting", "Work stuff can be really challenging sometimes."},
		{"My partner and I moved in together", "Relationships are such an important part of life."},
		{"The sky turned orange tonight", "I find what you're saying really interesting."},
	}
	for _, tc := range cases {
		got := FallbackResponse(reg, tc.message, "friend", "delhi")
		if !strings.Contains(got, tc.fragment) {
			t.Errorf("message %q: expected fragment %q in %q", tc.message, tc.fragment, got)
		}
	}
}

func TestFallbackResponse_TotalOverRegisteredProduct(t *testing.T) {
	reg := NewRegistry()
	for _, p := range reg.Personas() {
		for _, c := range reg.Cultures() {
			a := FallbackResponse(reg, "hello there", p.Key, c.Key)
			b := FallbackResponse(reg, "hello there", p.Key, c.Key)
			if a == "" {
				t.Fatalf("%s/%s: empty fallback", p.Key, c.Key)
			}
			if a != b {
				t.Fatalf("%s/%s: fallback not deterministic", p.Key, c.Key)
			}
		}
	}
}

func TestFallbackResponse_EchoesMessage(t *testing.T) {
	reg := NewRegistry()
	msg := "the quarterly numbers"
	got := FallbackResponse(reg, msg, "mentor", "berlin")
	if !strings.Contains(got, msg) {
		t.Fatalf("mentor fallback should echo the message, got %q", got)
	}
}

func TestFallbackResponse_UnknownKeysUseDefaults(t *testing.T) {
	reg := NewRegistry()
	got := FallbackResponse(reg, "hello", "bogus", "nowhere")
	want := FallbackResponse(reg, "hello", "friend", "delhi")
	if got != want {
		t.Fatalf("unknown keys should resolve to friend/delhi, got %q want %q", got, want)
	}
}

func TestFallbackResponse_UnregisteredComboGenericEcho(t *testing.T) {
	reg := NewRegistry()
	reg.Apply(&Pack{Personas: []Definition{
		{Key: "pirate", Name: "Salty Pirate", Description: "A swashbuckling companion", Traits: []string{"bold"}},
	}})

	msg := "treasure maps"
	got := FallbackResponse(reg, msg, "pirate", "delhi")
	if !strings.Contains(got, msg) {
		t.Fatalf("generic fallback should echo the message, got %q", got)
	}
	if !strings.Contains(got, "Thank you for sharing") {
		t.Fatalf("expected generic acknowledgment, got %q", got)
	}
}
