package providers

import (
	"fmt"
	"strings"
)

type NamedLLMProvider struct {
	Ref      ProviderRef
	Provider LLMProvider
}

type NamedEmbedProvider struct {
	Ref      ProviderRef
	Provider EmbeddingProvider
}

// Manager holds the configured LLM and embedding providers. Unconfigured
// lists fall back to the deterministic mock so a run always has a provider.
type Manager struct {
	llmProviders   []NamedLLMProvider
	embedProviders []NamedEmbedProvider
}

func NewManager(llmList, embedList string, embedDim int) (*Manager, error) {
	m := &Manager{}
	for _, ref := range ParseProviderList(llmList) {
		p, err := buildProvider(ref, embedDim)
		if err != nil {
			return nil, err
		}
		llm, ok := p.(LLMProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support llm", ref.Raw)
		}
		m.llmProviders = append(m.llmProviders, NamedLLMProvider{Ref: ref, Provider: llm})
	}
	for _, ref := range ParseProviderList(embedList) {
		p, err := buildProvider(ref, embedDim)
		if err != nil {
			return nil, err
		}
		embed, ok := p.(EmbeddingProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support embeddings", ref.Raw)
		}
		m.embedProviders = append(m.embedProviders, NamedEmbedProvider{Ref: ref, Provider: embed})
	}
	if len(m.llmProviders) == 0 {
		m.llmProviders = []NamedLLMProvider{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider(embedDim)}}
	}
	if len(m.embedProviders) == 0 {
		m.embedProviders = []NamedEmbedProvider{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider(embedDim)}}
	}
	return m, nil
}

func (m *Manager) LLM() LLMProvider {
	return m.llmProviders[0].Provider
}

func (m *Manager) Embedder() EmbeddingProvider {
	return m.embedProviders[0].Provider
}

func (m *Manager) LLMRef() ProviderRef {
	return m.llmProviders[0].Ref
}

func buildProvider(ref ProviderRef, dim int) (any, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(dim), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias), nil
	case "ollama":
		return NewOllamaEmbeddingProvider(ref.KeyAlias), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
