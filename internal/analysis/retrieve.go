package analysis

import (
	"context"
	"fmt"
	"strings"

	"advisorlens/internal/index"
	"advisorlens/internal/loader"
	"advisorlens/internal/models"
	"advisorlens/internal/providers"
)

const (
	CorpusClient  = "client"
	CorpusProduct = "product"

	namespaceClientState      = "client_state"
	namespaceProductPortfolio = "product_portfolio"
)

// Retriever answers natural-language queries against the client or product
// corpus. Corpora are loaded and indexed lazily on first use; the shared
// index cache guarantees at most one build per namespace per run.
type Retriever struct {
	cache  *index.Cache
	loader *loader.Loader
	llm    providers.LLMProvider
	topK   int
	temp   float64
}

func NewRetriever(cache *index.Cache, l *loader.Loader, llm providers.LLMProvider, topK int, temp float64) *Retriever {
	return &Retriever{cache: cache, loader: l, llm: llm, topK: topK, temp: temp}
}

// Retrieve runs a semantic search over the named corpus and compresses the
// hits into a short generated summary. Zero hits is a meaningful outcome,
// not an error: it returns the fixed "No relevant ... information found."
// message without calling the generation service.
func (r *Retriever) Retrieve(ctx context.Context, runID, corpusKind, query string, k int) (models.RetrievalResult, error) {
	if k <= 0 {
		k = r.topK
	}
	var handle *index.Handle
	var err error
	switch strings.ToLower(corpusKind) {
	case CorpusClient:
		text := loader.ClientStateText(r.loader.ClientState())
		handle, err = r.cache.CreateOrLoad(ctx, runID, namespaceClientState, text)
	case CorpusProduct:
		handle, err = r.cache.CreateOrLoad(ctx, runID, namespaceProductPortfolio, r.loader.ProductPortfolio())
	default:
		return models.RetrievalResult{}, fmt.Errorf("invalid corpus kind %q: use %q or %q", corpusKind, CorpusClient, CorpusProduct)
	}
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("index %s corpus: %w", corpusKind, err)
	}

	results, err := handle.Search(ctx, query, k)
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("search %s corpus: %w", corpusKind, err)
	}
	if len(results) == 0 {
		return models.RetrievalResult{
			Summary:    fmt.Sprintf("No relevant %s information found.", strings.ToLower(corpusKind)),
			RawResults: []models.ScoredChunk{},
		}, nil
	}

	passages := make([]string, 0, len(results))
	for _, res := range results {
		passages = append(passages, res.Text)
	}
	label := "Client"
	if strings.ToLower(corpusKind) == CorpusProduct {
		label = "Product"
	}
	prompt := fmt.Sprintf(retrievalSummaryPrompt, strings.ToLower(label), query, label, strings.Join(passages, "\n"))
	resp, _, err := r.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpRetrievalSummary,
		Temperature: r.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial data assistant. Summarize retrieved passages concisely and only from the provided text."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("summarize %s retrieval: %w", corpusKind, err)
	}
	return models.RetrievalResult{Summary: strings.TrimSpace(resp.Text), RawResults: results}, nil
}
