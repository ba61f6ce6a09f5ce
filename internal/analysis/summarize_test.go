package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"advisorlens/internal/models"
	"advisorlens/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeChunksCallsPerChunk(t *testing.T) {
	llm := newScriptedLLM()
	llm.responses[OpUnifiedSummary] = "Overall: retirement and college planning covered."
	s := NewSummarizer(llm, 0.1, 40, 8)

	transcript := strings.Repeat("Advisor and client discuss savings. ", 6)
	wantChunks := len(util.ChunkText(transcript, 40, 8))
	require.Greater(t, wantChunks, 1)

	got, err := s.SummarizeChunks(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "Overall: retirement and college planning covered.", got)
	assert.Equal(t, wantChunks, llm.countOp(OpChunkSummary))
	assert.Equal(t, 1, llm.countOp(OpUnifiedSummary))
}

func TestSummarizeChunksEmptyTranscript(t *testing.T) {
	llm := newScriptedLLM()
	s := NewSummarizer(llm, 0.1, 40, 8)

	got, err := s.SummarizeChunks(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, llm.calls)
}

func TestSummarizeStructuredParsesSections(t *testing.T) {
	s := NewSummarizer(newScriptedLLM(), 0.1, 40, 8)

	sections, raw, err := s.SummarizeStructured(context.Background(), sampleTranscript, models.DialogueAnalysis{
		Emotions: "anxious",
		Topics:   []string{"retirement"},
	})
	require.NoError(t, err)
	require.Len(t, sections, 4)
	assert.Contains(t, sections["client_goals"], "retirement")
	assert.NotEmpty(t, raw)
}

func TestSummarizeStructuredUnparseableKeepsRaw(t *testing.T) {
	llm := newScriptedLLM()
	llm.responses[OpStructuredSummary] = "a freeform summary without any section markers"
	s := NewSummarizer(llm, 0.1, 40, 8)

	sections, raw, err := s.SummarizeStructured(context.Background(), sampleTranscript, models.DialogueAnalysis{})
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.Equal(t, "a freeform summary without any section markers", raw)
}

func TestSummarizerRunFull(t *testing.T) {
	llm := newScriptedLLM()
	s := NewSummarizer(llm, 0.1, 40, 8)

	got, err := s.Run(context.Background(), sampleTranscript, models.DialogueAnalysis{}, SummaryFull)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ChunkSummary)
	assert.Len(t, got.Sections, 4)
	assert.NotEmpty(t, got.FullSummary)
}

func TestSummarizerRunInvalidType(t *testing.T) {
	s := NewSummarizer(newScriptedLLM(), 0.1, 40, 8)

	_, err := s.Run(context.Background(), sampleTranscript, models.DialogueAnalysis{}, "bullet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid summary type")
}

func TestSummarizerRunChunkFailure(t *testing.T) {
	llm := newScriptedLLM()
	llm.errs[OpChunkSummary] = errors.New("rate limited")
	s := NewSummarizer(llm, 0.1, 40, 8)

	_, err := s.Run(context.Background(), sampleTranscript, models.DialogueAnalysis{}, SummaryChunks)
	require.Error(t, err)
}
