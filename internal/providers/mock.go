package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

// MockProvider returns deterministic completions and embeddings so the
// pipeline runs end to end without network access. Output is shaped per
// operation to keep downstream parsers exercised.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 1536
	}
	return &MockProvider{dim: dim}
}

func (m *MockProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	_ = ctx
	dim := req.Dimension
	if dim <= 0 {
		dim = m.dim
	}
	vectors := make([][]float32, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		vectors = append(vectors, deterministicVector(input, dim))
	}
	return vectors, ProviderInfo{Name: "mock", Model: "mock-embed", Key: "mock"}, nil
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, ProviderInfo, error) {
	_ = ctx
	info := ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}
	op := strings.ToLower(req.Operation)
	var text string
	switch {
	case strings.Contains(op, "emotion"):
		text = "Step 1 - Identify statements indicating emotions:\n- Concern about savings.\n\n" +
			"Step 2 - Deduce underlying concerns/needs:\n- Long-term security.\n\n" +
			"Step 3 - Summarize emotional insights:\nThe client is anxious about retirement adequacy but reassured by a concrete plan."
	case strings.Contains(op, "topic"):
		text = "1. Retirement savings - contribution levels and targets\n2. College fund - 529 plan for the daughter\n3. Life insurance - term coverage gap"
	case strings.Contains(op, "question"):
		text = "- Is my current 401(k) contribution enough?\n- When can we start implementing the changes?\n- Implied: is now a good time to invest given the market?"
	case strings.Contains(op, "structured"):
		text = "**Client's Goals/Questions:**\n- Save more for retirement and start a college fund.\n\n" +
			"**Advisor's Analysis & Recommendations:**\n- Raise 401(k) contribution, open a 529 plan, add term life cover.\n\n" +
			"**Action Items / Next Steps:**\n- Paperwork for 529 and insurance today; follow-up in three months.\n\n" +
			"**Client's Reactions/Concerns:**\n- Relieved by affordability; wary of market timing."
	case strings.Contains(op, "unmet"):
		text = "1. Emergency fund - no liquid reserve was discussed.\n2. Disability insurance - income protection gap."
	case strings.Contains(op, "product_recommendation"):
		text = "1. High-yield savings account for the emergency fund.\n2. Long-term disability policy."
	case strings.Contains(op, "next_step"):
		text = "ACTION: Open 529 plan - TIMEFRAME: This week - PURPOSE: Start college savings\n" +
			"ACTION: Review disability cover - TIMEFRAME: Next meeting - PURPOSE: Close protection gap"
	case strings.Contains(op, "inquiry"):
		text = `{"product_inquiries":[{"product_type":"term life insurance","specific_need":"coverage for a single parent","context":"advisor raised the employer policy gap"}]}`
	case strings.Contains(op, "relevance"):
		text = "true"
	default:
		text = "Mock summary grounded in the provided excerpts."
	}
	return CompletionResponse{Text: text}, info, nil
}

func deterministicVector(input string, dim int) []float32 {
	vec := make([]float32, dim)
	seed := []byte(input)
	if len(seed) == 0 {
		seed = []byte("empty")
	}
	for i := 0; i < dim; i++ {
		h := sha256.Sum256(append(seed, byte(i%251)))
		u := binary.BigEndian.Uint32(h[:4])
		vec[i] = float32(u%2000)/1000.0 - 1.0
	}
	return vec
}
