package state

import (
	"context"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

func TestSessionIDUsesLocalDay(t *testing.T) {
	t.Parallel()

	bogota := time.FixedZone("COT", -5*60*60)
	now := time.Date(2025, 3, 2, 1, 30, 0, 0, time.UTC).In(bogota)

	if got := SessionID(" 573001112233 ", now); got != "573001112233#2025-03-01" {
		t.Fatalf("SessionID() = %q", got)
	}
}

func TestTrimKeepsTailStartingOnUser(t *testing.T) {
	t.Parallel()

	msgs := []contractx.Message{
		contractx.UserMessage("1"),
		contractx.AssistantMessage("2"),
		contractx.UserMessage("3"),
		contractx.AssistantMessage("4"),
		contractx.UserMessage("5"),
	}

	got := Trim(msgs, 4)
	if len(got) != 3 || got[0].Content != "3" {
		t.Fatalf("Trim() = %#v", got)
	}

	all := Trim(msgs, 0)
	if len(all) != len(msgs) {
		t.Fatalf("Trim(0) len = %d", len(all))
	}
}

func TestTrimDropsLeadingToolTraffic(t *testing.T) {
	t.Parallel()

	msgs := []contractx.Message{
		contractx.ToolMessage("c1", "ok"),
		contractx.AssistantMessage("hi"),
	}
	if got := Trim(msgs, 10); len(got) != 0 {
		t.Fatalf("Trim() = %#v, want empty", got)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, "s", contractx.UserMessage("hola")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	msgs, err := store.Load(ctx, "s")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	msgs[0].Content = "mutated"

	again, _ := store.Load(ctx, "s")
	if again[0].Content != "hola" {
		t.Fatalf("stored message was mutated through Load result")
	}
	if _, err := store.Load(ctx, ""); err == nil {
		t.Fatal("expected ErrInvalidSession")
	}
}
