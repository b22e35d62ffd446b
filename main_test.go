package main

import (
	"context"
	"testing"

	llmx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/llm"
)

func TestBuildKnowledgeWithoutDatabaseIsNil(t *testing.T) {
	t.Setenv("KNOWLEDGE_DSN", "")

	kb, err := buildKnowledge(context.Background(), llmx.Config{}, "")
	if err != nil {
		t.Fatalf("buildKnowledge returned error: %v", err)
	}
	if kb != nil {
		t.Fatalf("expected a nil knowledge base, got %T", kb)
	}
}

func TestAppConfigRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := AppConfig{Timezone: "America/Bogota", TableBackend: "csv", HistoryBackend: backendMemory}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown table backend")
	}
}
