package factory

import (
	"fmt"

	"vox-tutor-be/pkg/llm"
	"vox-tutor-be/pkg/llm/groq"
	"vox-tutor-be/pkg/llm/ollama"
)

// NewLLMProvider selects the chat backend by name. "groq" is the
// production default; "ollama" keeps local development working without
// a cloud credential.
func NewLLMProvider(provider, model, groqAPIKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch provider {
	case "groq", "":
		return groq.NewGroqProvider(groqAPIKey, model), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
