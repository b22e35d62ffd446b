package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

func TestUpstashRedisStoreRedisKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.redisKey("573001112233#2025-03-01")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "chat:history:573001112233#2025-03-01" {
		t.Fatalf("redisKey() = %q", got)
	}
}

func TestUpstashRedisStoreRedisKeyEmptySession(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	_, err := store.redisKey("   ")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("redisKey() error = %v, want ErrInvalidSession", err)
	}
}

func newRecordingServer(t *testing.T, reply func(cmd []any) string) (*httptest.Server, *[][]any) {
	t.Helper()

	var (
		mu       sync.Mutex
		commands [][]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
			return
		}
		mu.Lock()
		commands = append(commands, cmd)
		mu.Unlock()
		fmt.Fprint(w, reply(cmd))
	}))
	t.Cleanup(server.Close)
	return server, &commands
}

func TestUpstashRedisStoreAppendPushesAndExpires(t *testing.T) {
	t.Parallel()

	server, commands := newRecordingServer(t, func([]any) string { return `{"result":1}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	err = store.Append(context.Background(), "s1",
		contractx.UserMessage("hola"),
		contractx.AssistantMessage("buenas"),
	)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if len(*commands) != 2 {
		t.Fatalf("commands = %#v, want RPUSH and EXPIRE", *commands)
	}
	push := (*commands)[0]
	if push[0] != "RPUSH" || push[1] != "chat:history:s1" || len(push) != 4 {
		t.Fatalf("push command = %#v", push)
	}
	expire := (*commands)[1]
	if expire[0] != "EXPIRE" || expire[1] != "chat:history:s1" {
		t.Fatalf("expire command = %#v", expire)
	}
}

func TestUpstashRedisStoreAppendWithoutTTLSkipsExpire(t *testing.T) {
	t.Parallel()

	server, commands := newRecordingServer(t, func([]any) string { return `{"result":1}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithTTL(0),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if err := store.Append(context.Background(), "s1", contractx.UserMessage("hola")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(*commands) != 1 {
		t.Fatalf("commands = %#v, want only RPUSH", *commands)
	}
}

func TestUpstashRedisStoreLoadDecodesEntries(t *testing.T) {
	t.Parallel()

	first, _ := json.Marshal(contractx.UserMessage("hola"))
	second, _ := json.Marshal(contractx.AssistantMessage("buenas"))
	list, _ := json.Marshal([]string{string(first), string(second)})

	server, commands := newRecordingServer(t, func([]any) string {
		return fmt.Sprintf(`{"result":%s}`, list)
	})

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	msgs, err := store.Load(context.Background(), "s2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "hola" || msgs[1].Role != contractx.RoleAssistant {
		t.Fatalf("Load() = %#v", msgs)
	}

	cmd := (*commands)[0]
	if cmd[0] != "LRANGE" || cmd[1] != "chat:history:s2" {
		t.Fatalf("command = %#v", cmd)
	}
}

func TestUpstashRedisStoreLoadEmptyList(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, func([]any) string { return `{"result":[]}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	msgs, err := store.Load(context.Background(), "s3")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("Load() = %#v, want empty", msgs)
	}
}

func TestUpstashRedisStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, func([]any) string { return `{"error":"WRONGTYPE"}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Load(context.Background(), "s4"); err == nil {
		t.Fatal("expected error")
	}
}
