package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one generation-service call. Operation tags the call
// for auditing and lets the mock provider shape deterministic output.
// JSONMode asks the provider to constrain output to a well-formed JSON
// document; extraction operations run at temperature 0.
type CompletionRequest struct {
	Operation   string    `json:"operation"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	JSONMode    bool      `json:"json_mode,omitempty"`
}

type CompletionResponse struct {
	Text string `json:"text"`
}

type EmbedRequest struct {
	Operation string   `json:"operation"`
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, ProviderInfo, error)
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}
