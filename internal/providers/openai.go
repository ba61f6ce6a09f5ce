package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OpenAIProvider uses standard OpenAI REST APIs when keys are configured.
type OpenAIProvider struct {
	keyName string
	apiKey  string
	client  *http.Client
}

func NewOpenAIProvider(keyName string) *OpenAIProvider {
	apiKey := resolveOpenAIKey(keyName)
	return &OpenAIProvider{
		keyName: keyName,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *OpenAIProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	if o.apiKey == "" {
		return nil, ProviderInfo{Name: "openai", Key: o.keyName}, fmt.Errorf("openai key missing for alias %q", o.keyName)
	}
	model := "text-embedding-3-small"
	payload, _ := json.Marshal(map[string]any{"model": model, "input": req.Inputs})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/embeddings", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("openai embedding request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("openai embedding error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("decode embedding response: %w", err)
	}
	out := make([][]float32, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		out = append(out, d.Embedding)
	}
	return out, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, nil
}

func (o *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, ProviderInfo, error) {
	if o.apiKey == "" {
		return CompletionResponse{}, ProviderInfo{Name: "openai", Key: o.keyName}, fmt.Errorf("openai key missing for alias %q", o.keyName)
	}
	model := "gpt-4o-mini"
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}
	body := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	payload, _ := json.Marshal(body)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("openai completion request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return CompletionResponse{}, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("openai completion error %d: %s", resp.StatusCode, string(raw))
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return CompletionResponse{}, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return CompletionResponse{}, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, fmt.Errorf("openai returned empty choices")
	}
	return CompletionResponse{Text: parsed.Choices[0].Message.Content}, ProviderInfo{Name: "openai", Model: model, Key: o.keyName}, nil
}

func resolveOpenAIKey(alias string) string {
	if alias != "" {
		k := os.Getenv("ADVISORLENS_OPENAI_KEY_" + strings.ToUpper(alias))
		if k != "" {
			return k
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}
