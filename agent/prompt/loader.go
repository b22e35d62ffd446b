package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/assistant.txt
	assistantRaw string

	//go:embed template/knowledge.txt
	knowledgeRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Assistant string
	Knowledge string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant: strings.TrimSpace(assistantRaw),
		Knowledge: strings.TrimSpace(knowledgeRaw),
	}
}
