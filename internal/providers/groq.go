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

// GroqProvider supports LLM generation via Groq's OpenAI-compatible API.
type GroqProvider struct {
	keyName string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGroqProvider(keyName string) *GroqProvider {
	model := os.Getenv("ADVISORLENS_GROQ_MODEL")
	if strings.TrimSpace(model) == "" {
		model = "llama-3.1-8b-instant"
	}
	return &GroqProvider{
		keyName: keyName,
		apiKey:  resolveGroqKey(keyName),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GroqProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "groq", Key: g.keyName, Model: g.model}
	if g.apiKey == "" {
		return CompletionResponse{}, info, fmt.Errorf("groq key missing for alias %q", g.keyName)
	}
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}
	body := map[string]any{
		"model":       g.model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	payload, _ := json.Marshal(body)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, info, fmt.Errorf("groq completion request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return CompletionResponse{}, info, fmt.Errorf("groq completion error %d: %s", resp.StatusCode, string(raw))
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return CompletionResponse{}, info, fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return CompletionResponse{}, info, fmt.Errorf("groq returned empty choices")
	}
	return CompletionResponse{Text: parsed.Choices[0].Message.Content}, info, nil
}

func resolveGroqKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("ADVISORLENS_GROQ_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GROQ_API_KEY")
}
