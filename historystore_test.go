package personachat

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func seedTurns(n int) []ConversationTurn {
	turns := make([]ConversationTurn, n)
	for i := range turns {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		turns[i] = ConversationTurn{Role: role, Content: string(rune('a' + i%26)), Timestamp: time.Now()}
	}
	return turns
}

func testHistoryStore(t *testing.T, store HistoryStore) {
	ctx := context.Background()

	got, err := store.Recent(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("recent on empty session: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(got))
	}

	if err := store.Append(ctx, "s1",
		ConversationTurn{Role: RoleUser, Content: "one"},
		ConversationTurn{Role: RoleAssistant, Content: "two"},
		ConversationTurn{Role: RoleUser, Content: "three"},
		ConversationTurn{Role: RoleAssistant, Content: "four"},
	); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err = store.Recent(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 || got[0].Content != "two" || got[2].Content != "four" {
		t.Fatalf("expected newest three turns in order, got %+v", got)
	}
	if got[0].Role != RoleAssistant || got[1].Role != RoleUser {
		t.Fatalf("roles not preserved: %+v", got)
	}

	// Sessions are isolated.
	other, err := store.Recent(ctx, "s2", 3)
	if err != nil {
		t.Fatalf("recent other session: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("sessions must be isolated, got %+v", other)
	}

	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.Recent(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("recent after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected cleared session, got %+v", got)
	}

	// Stored turns per session are capped.
	if err := store.Append(ctx, "s1", seedTurns(historyKeep+10)...); err != nil {
		t.Fatalf("bulk append: %v", err)
	}
	got, err = store.Recent(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(got) != historyKeep {
		t.Fatalf("expected cap at %d turns, got %d", historyKeep, len(got))
	}
}

func TestInMemoryHistoryStore(t *testing.T) {
	testHistoryStore(t, NewInMemoryHistoryStore())
}

func TestRedisHistoryStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	testHistoryStore(t, NewRedisHistoryStore(client))
}

func TestRedisHistoryStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisHistoryStore(client, RedisHistoryConfig{Prefix: "test", TTL: time.Minute})
	ctx := context.Background()
	if err := store.Append(ctx, "sess", ConversationTurn{Role: RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if ttl := mr.TTL("test:sess:turns"); ttl != time.Minute {
		t.Fatalf("expected 1m TTL on session key, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	got, err := store.Recent(ctx, "sess", 3)
	if err != nil {
		t.Fatalf("recent after expiry: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired session, got %+v", got)
	}
}
