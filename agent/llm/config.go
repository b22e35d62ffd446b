package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/openrouter"
)

type Role string

const (
	RoleAssistant Role = "assistant"
	RoleKnowledge Role = "knowledge"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"250"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
	EmbeddingModel     string        `envconfig:"EMBEDDING_MODEL" split_words:"true" default:"text-embedding-3-small"`

	AssistantModel       string  `envconfig:"ASSISTANT_MODEL" split_words:"true"`
	KnowledgeModel       string  `envconfig:"KNOWLEDGE_MODEL" split_words:"true"`
	AssistantTemperature float32 `envconfig:"ASSISTANT_TEMPERATURE" split_words:"true" default:"-1"`
	KnowledgeTemperature float32 `envconfig:"KNOWLEDGE_TEMPERATURE" split_words:"true" default:"-1"`
	KnowledgeMaxTokens   int     `envconfig:"KNOWLEDGE_MAX_TOKENS" split_words:"true" default:"1000"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings for one role, falling back to the defaults.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature
	maxTokens := c.MaxCompletionToken

	switch role {
	case RoleAssistant:
		if v := strings.TrimSpace(c.AssistantModel); v != "" {
			modelName = v
		}
		if c.AssistantTemperature >= 0 {
			temp = c.AssistantTemperature
		}
	case RoleKnowledge:
		if v := strings.TrimSpace(c.KnowledgeModel); v != "" {
			modelName = v
		}
		if c.KnowledgeTemperature >= 0 {
			temp = c.KnowledgeTemperature
		}
		if c.KnowledgeMaxTokens > 0 {
			maxTokens = c.KnowledgeMaxTokens
		}
	}

	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxTokens,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
