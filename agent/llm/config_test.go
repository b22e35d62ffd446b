package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

func TestValidateRequiresKeyAndModel(t *testing.T) {
	t.Parallel()

	if err := (Config{Model: "m"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("missing key: err = %v", err)
	}
	if err := (Config{APIKey: "k"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("missing model: err = %v", err)
	}
	if err := (Config{APIKey: "k", Model: "m"}).Validate(); err != nil {
		t.Fatalf("valid config: err = %v", err)
	}
}

func TestOpenRouterForAppliesRoleOverrides(t *testing.T) {
	t.Parallel()

	conf := Config{
		APIKey:               "k",
		Model:                "base",
		Temperature:          0.2,
		MaxCompletionToken:   250,
		KnowledgeModel:       "reader",
		KnowledgeTemperature: 0.7,
		KnowledgeMaxTokens:   1000,
		AssistantTemperature: -1,
	}

	assistant := conf.OpenRouterFor(RoleAssistant)
	if assistant.Model != "base" || assistant.Temperature != 0.2 || *assistant.MaxCompletionToken != 250 {
		t.Fatalf("assistant config = %+v", assistant)
	}

	knowledge := conf.OpenRouterFor(RoleKnowledge)
	if knowledge.Model != "reader" || knowledge.Temperature != 0.7 || *knowledge.MaxCompletionToken != 1000 {
		t.Fatalf("knowledge config = %+v", knowledge)
	}
}
