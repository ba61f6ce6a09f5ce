package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = "Advisor: How are the retirement savings going?\nClient: I'm worried we are behind."

func TestAnalyzeEmotionsKeepsSummarySegment(t *testing.T) {
	d := NewDialogue(newScriptedLLM(), 0.1)

	got, err := d.AnalyzeEmotions(context.Background(), sampleTranscript)
	require.NoError(t, err)
	assert.Equal(t, "The client is anxious about retirement adequacy but reassured by a concrete plan.", got)
}

func TestAnalyzeEmotionsMarkerMissingFallsBack(t *testing.T) {
	llm := newScriptedLLM()
	llm.responses[OpEmotionAnalysis] = "the client sounded tense throughout"
	d := NewDialogue(llm, 0.1)

	got, err := d.AnalyzeEmotions(context.Background(), sampleTranscript)
	require.NoError(t, err)
	assert.Equal(t, "the client sounded tense throughout", got)
}

func TestDialogueRunFull(t *testing.T) {
	llm := newScriptedLLM()
	d := NewDialogue(llm, 0.1)

	got, err := d.Run(context.Background(), sampleTranscript, ModeFull)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Emotions)
	assert.GreaterOrEqual(t, len(got.Topics), 3)
	assert.NotEmpty(t, got.Questions)
	assert.Equal(t, 1, llm.countOp(OpEmotionAnalysis))
	assert.Equal(t, 1, llm.countOp(OpTopicExtraction))
	assert.Equal(t, 1, llm.countOp(OpQuestionExtraction))
}

func TestDialogueRunInvalidMode(t *testing.T) {
	d := NewDialogue(newScriptedLLM(), 0.1)

	_, err := d.Run(context.Background(), sampleTranscript, "sentiment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid analysis mode")
}

func TestDialogueRunFullToleratesPartialFailure(t *testing.T) {
	llm := newScriptedLLM()
	llm.errs[OpTopicExtraction] = errors.New("upstream 500")
	d := NewDialogue(llm, 0.1)

	got, err := d.Run(context.Background(), sampleTranscript, ModeFull)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Emotions)
	assert.Empty(t, got.Topics)
	assert.NotEmpty(t, got.Questions)
}

func TestDialogueRunFullFailsWhenAllFail(t *testing.T) {
	llm := newScriptedLLM()
	boom := errors.New("upstream 500")
	llm.errs[OpEmotionAnalysis] = boom
	llm.errs[OpTopicExtraction] = boom
	llm.errs[OpQuestionExtraction] = boom
	d := NewDialogue(llm, 0.1)

	_, err := d.Run(context.Background(), sampleTranscript, ModeFull)
	require.Error(t, err)
}

func TestDialogueRunSingleModeFailure(t *testing.T) {
	llm := newScriptedLLM()
	llm.errs[OpQuestionExtraction] = errors.New("quota exceeded")
	d := NewDialogue(llm, 0.1)

	_, err := d.Run(context.Background(), sampleTranscript, ModeQuestions)
	require.Error(t, err)
}
