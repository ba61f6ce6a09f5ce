package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"advisorlens/internal/index"
	"advisorlens/internal/loader"
	"advisorlens/internal/providers"

	"github.com/stretchr/testify/require"
)

// scriptedLLM delegates to the deterministic mock provider but lets a test
// override or fail specific operations, and records every call.
type scriptedLLM struct {
	mock      *providers.MockProvider
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newScriptedLLM() *scriptedLLM {
	return &scriptedLLM{
		mock:      providers.NewMockProvider(8),
		responses: map[string]string{},
		errs:      map[string]error{},
	}
}

func (s *scriptedLLM) Complete(ctx context.Context, req providers.CompletionRequest) (providers.CompletionResponse, providers.ProviderInfo, error) {
	s.calls = append(s.calls, req.Operation)
	if err, ok := s.errs[req.Operation]; ok {
		return providers.CompletionResponse{}, providers.ProviderInfo{Name: "scripted"}, err
	}
	if text, ok := s.responses[req.Operation]; ok {
		return providers.CompletionResponse{Text: text}, providers.ProviderInfo{Name: "scripted"}, nil
	}
	return s.mock.Complete(ctx, req)
}

func (s *scriptedLLM) countOp(op string) int {
	n := 0
	for _, c := range s.calls {
		if c == op {
			n++
		}
	}
	return n
}

// newTestRetriever wires a retriever over a temp data directory. withData
// controls whether the client and product corpora exist at all.
func newTestRetriever(t *testing.T, llm providers.LLMProvider, withData bool) *Retriever {
	t.Helper()
	dir := t.TempDir()
	if withData {
		csv := "Category,Value\nAge,42\nRisk Tolerance,Moderate\nCurrent Products,\"401(k), brokerage account\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "client_state.csv"), []byte(csv), 0o644))
		portfolio := "Term Life Insurance: flexible coverage for families.\nHigh-Yield Savings: liquid emergency reserves.\n529 College Plan: tax-advantaged education savings."
		require.NoError(t, os.WriteFile(filepath.Join(dir, "product_portfolio.txt"), []byte(portfolio), 0o644))
	}
	cache := index.NewCache(providers.NewMockProvider(8), 64, 8, 8)
	return NewRetriever(cache, loader.New(dir), llm, 3, 0.1)
}
