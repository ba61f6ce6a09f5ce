package analysis

import (
	"context"
	"fmt"
	"strings"

	"advisorlens/internal/models"
	"advisorlens/internal/providers"
	"advisorlens/internal/util"
)

const (
	SummaryChunks     = "chunks"
	SummaryStructured = "structured"
	SummaryFull       = "full"
)

// Summarizer produces the rolling chunk-by-chunk summary and the structured
// section-labeled summary of the transcript.
type Summarizer struct {
	llm          providers.LLMProvider
	temp         float64
	chunkSize    int
	chunkOverlap int
}

func NewSummarizer(llm providers.LLMProvider, temp float64, chunkSize, chunkOverlap int) *Summarizer {
	return &Summarizer{llm: llm, temp: temp, chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// SummarizeChunks bounds each generation call's input by summarizing the
// transcript chunk by chunk (order preserved), then unifies the per-chunk
// summaries with one final call.
func (s *Summarizer) SummarizeChunks(ctx context.Context, transcript string) (string, error) {
	chunks := util.ChunkText(transcript, s.chunkSize, s.chunkOverlap)
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		resp, _, err := s.llm.Complete(ctx, providers.CompletionRequest{
			Operation:   OpChunkSummary,
			Temperature: s.temp,
			Messages: []providers.Message{
				{Role: "system", Content: "You are a financial conversation analyst specializing in concise summaries."},
				{Role: "user", Content: fmt.Sprintf(chunkSummaryPrompt, chunk)},
			},
		})
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, strings.TrimSpace(resp.Text))
	}
	if len(summaries) == 0 {
		return "", nil
	}

	resp, _, err := s.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpUnifiedSummary,
		Temperature: s.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial conversation analyst specializing in concise summaries."},
			{Role: "user", Content: fmt.Sprintf(unifiedSummaryPrompt, strings.Join(summaries, "\n\n"))},
		},
	})
	if err != nil {
		return "", fmt.Errorf("unify chunk summaries: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// SummarizeStructured requests the four fixed sections in one call and
// parses them out. Sections missing from the output are omitted; the raw
// text is always kept as a fallback.
func (s *Summarizer) SummarizeStructured(ctx context.Context, transcript string, dialogue models.DialogueAnalysis) (map[string]string, string, error) {
	resp, _, err := s.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpStructuredSummary,
		Temperature: s.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial conversation analyst specializing in structured summaries."},
			{Role: "user", Content: fmt.Sprintf(structuredSummaryPrompt, transcript, dialogue.Emotions, strings.Join(dialogue.Topics, "\n"))},
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("structured summary: %w", err)
	}
	raw := strings.TrimSpace(resp.Text)
	return ParseSections(raw, summarySections), raw, nil
}

// Run dispatches to one or both summary paths.
func (s *Summarizer) Run(ctx context.Context, transcript string, dialogue models.DialogueAnalysis, summaryType string) (models.SummaryResult, error) {
	var out models.SummaryResult
	switch summaryType {
	case SummaryChunks:
		chunkSummary, err := s.SummarizeChunks(ctx, transcript)
		if err != nil {
			return out, err
		}
		out.ChunkSummary = chunkSummary
	case SummaryStructured:
		sections, raw, err := s.SummarizeStructured(ctx, transcript, dialogue)
		if err != nil {
			return out, err
		}
		out.Sections = sections
		out.FullSummary = raw
	case SummaryFull:
		chunkSummary, err := s.SummarizeChunks(ctx, transcript)
		if err != nil {
			return out, err
		}
		sections, raw, err := s.SummarizeStructured(ctx, transcript, dialogue)
		if err != nil {
			return out, err
		}
		out.ChunkSummary = chunkSummary
		out.Sections = sections
		out.FullSummary = raw
	default:
		return out, fmt.Errorf("invalid summary type %q: use chunks, structured or full", summaryType)
	}
	return out, nil
}
