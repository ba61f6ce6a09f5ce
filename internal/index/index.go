package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"advisorlens/internal/models"
	"advisorlens/internal/providers"
	"advisorlens/internal/util"
)

// Handle is the searchable index over one namespace's chunks. Vectors and
// chunk texts are parallel slices; chunk order matches the source corpus.
type Handle struct {
	namespace string
	chunks    []string
	vectors   [][]float32
	embedder  providers.EmbeddingProvider
	dim       int
}

func (h *Handle) Namespace() string { return h.namespace }

func (h *Handle) Empty() bool { return len(h.chunks) == 0 }

// Search embeds the query and returns up to k chunks ordered by descending
// cosine similarity, ties broken by original chunk order. An empty handle
// returns no results and no error; a non-positive k is a validation error.
func (h *Handle) Search(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search top-k must be positive, got %d", k)
	}
	if h.Empty() {
		return []models.ScoredChunk{}, nil
	}
	vecs, _, err := h.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "query_embed",
		Inputs:    []string{query},
		Dimension: h.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedding provider returned no query vector")
	}
	qv := vecs[0]

	results := make([]models.ScoredChunk, 0, len(h.chunks))
	for i := range h.chunks {
		results = append(results, models.ScoredChunk{
			Text:  h.chunks[i],
			Score: cosine(h.vectors[i], qv),
			Index: i,
		})
	}
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Index < results[b].Index
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

type entry struct {
	mu     sync.Mutex
	handle *Handle
}

// Cache builds at most one index per (run, namespace). The first caller for
// an uninitialized namespace builds it while later callers wait and reuse;
// a later call with different text still gets the first-built handle.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	embedder  providers.EmbeddingProvider
	chunkSize int
	overlap   int
	dim       int
}

func NewCache(embedder providers.EmbeddingProvider, chunkSize, overlap, dim int) *Cache {
	return &Cache{
		entries:   make(map[string]*entry),
		embedder:  embedder,
		chunkSize: chunkSize,
		overlap:   overlap,
		dim:       dim,
	}
}

func (c *Cache) CreateOrLoad(ctx context.Context, runID, namespace, text string) (*Handle, error) {
	key := runID + "/" + namespace
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle != nil {
		return e.handle, nil
	}
	h, err := c.build(ctx, namespace, text)
	if err != nil {
		// Drop the slot so a retried build is not poisoned by this failure.
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, err
	}
	e.handle = h
	return h, nil
}

// Release frees every handle belonging to runID.
func (c *Cache) Release(runID string) {
	prefix := runID + "/"
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) build(ctx context.Context, namespace, text string) (*Handle, error) {
	h := &Handle{namespace: namespace, embedder: c.embedder, dim: c.dim}
	if strings.TrimSpace(text) == "" {
		return h, nil
	}
	chunks := make([]string, 0)
	for _, part := range util.ChunkText(text, c.chunkSize, c.overlap) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, part)
	}
	if len(chunks) == 0 {
		return h, nil
	}
	vectors, _, err := c.embedder.Embed(ctx, providers.EmbedRequest{
		Operation: "index_build",
		Inputs:    chunks,
		Dimension: c.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("embed %s chunks: %w", namespace, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch for %s: %d chunks, %d vectors", namespace, len(chunks), len(vectors))
	}
	h.chunks = chunks
	h.vectors = vectors
	return h, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
