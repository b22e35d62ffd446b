package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSetCarriesTemplateVariables(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	for _, v := range []string{"{time}", "{user_info}"} {
		if !strings.Contains(set.Assistant, v) {
			t.Fatalf("assistant prompt missing %s", v)
		}
	}
	for _, v := range []string{"{context}", "{query}"} {
		if !strings.Contains(set.Knowledge, v) {
			t.Fatalf("knowledge prompt missing %s", v)
		}
	}
}
