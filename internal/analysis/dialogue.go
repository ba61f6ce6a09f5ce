package analysis

import (
	"context"
	"errors"
	"fmt"

	"advisorlens/internal/models"
	"advisorlens/internal/providers"
)

const (
	ModeEmotions  = "emotions"
	ModeTopics    = "topics"
	ModeQuestions = "questions"
	ModeFull      = "full"
)

// Dialogue derives emotional insight, ranked topics, and client questions
// from the transcript. Each sub-operation is one generation call and is
// independent of the others.
type Dialogue struct {
	llm  providers.LLMProvider
	temp float64
}

func NewDialogue(llm providers.LLMProvider, temp float64) *Dialogue {
	return &Dialogue{llm: llm, temp: temp}
}

// AnalyzeEmotions asks for three-step reasoning and keeps only the final
// summary segment. When the step marker is missing from the output the
// whole text is used instead; malformed output never fails the stage.
func (d *Dialogue) AnalyzeEmotions(ctx context.Context, transcript string) (string, error) {
	resp, _, err := d.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpEmotionAnalysis,
		Temperature: d.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial conversation analyst attentive to client sentiment."},
			{Role: "user", Content: fmt.Sprintf(emotionAnalysisPrompt, transcript)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("analyze emotions: %w", err)
	}
	return TextAfterMarker(resp.Text, emotionSummaryMarker), nil
}

// ExtractTopics returns the main topics in importance order, one per line
// of generated output.
func (d *Dialogue) ExtractTopics(ctx context.Context, transcript string) ([]string, error) {
	resp, _, err := d.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpTopicExtraction,
		Temperature: d.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial conversation analyst."},
			{Role: "user", Content: fmt.Sprintf(topicExtractionPrompt, transcript)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extract topics: %w", err)
	}
	return SplitLines(resp.Text), nil
}

// ExtractQuestions returns the client's explicit and implied questions.
func (d *Dialogue) ExtractQuestions(ctx context.Context, transcript string) ([]string, error) {
	resp, _, err := d.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpQuestionExtraction,
		Temperature: d.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial conversation analyst."},
			{Role: "user", Content: fmt.Sprintf(questionExtractionPrompt, transcript)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extract questions: %w", err)
	}
	return SplitLines(resp.Text), nil
}

// Run executes the requested sub-operations. In full mode one failing
// sub-operation does not block the others; an error is returned only when
// the mode is unknown or every requested sub-operation failed.
func (d *Dialogue) Run(ctx context.Context, transcript, mode string) (models.DialogueAnalysis, error) {
	switch mode {
	case ModeEmotions, ModeTopics, ModeQuestions, ModeFull:
	default:
		return models.DialogueAnalysis{}, fmt.Errorf("invalid analysis mode %q: use emotions, topics, questions or full", mode)
	}

	var out models.DialogueAnalysis
	var errs []error
	requested := 0

	if mode == ModeEmotions || mode == ModeFull {
		requested++
		emotions, err := d.AnalyzeEmotions(ctx, transcript)
		if err != nil {
			errs = append(errs, err)
		} else {
			out.Emotions = emotions
		}
	}
	if mode == ModeTopics || mode == ModeFull {
		requested++
		topics, err := d.ExtractTopics(ctx, transcript)
		if err != nil {
			errs = append(errs, err)
		} else {
			out.Topics = topics
		}
	}
	if mode == ModeQuestions || mode == ModeFull {
		requested++
		questions, err := d.ExtractQuestions(ctx, transcript)
		if err != nil {
			errs = append(errs, err)
		} else {
			out.Questions = questions
		}
	}
	if len(errs) == requested {
		return out, errors.Join(errs...)
	}
	return out, nil
}
