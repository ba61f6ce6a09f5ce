package activities

import "advisorlens/internal/models"

type LoadTranscriptInput struct {
	RunID          string `json:"run_id"`
	TranscriptPath string `json:"transcript_path,omitempty"`
}

type LoadTranscriptOutput struct {
	Transcript    string `json:"transcript"`
	TranscriptSHA string `json:"transcript_sha"`
}

type DialogueAnalyzeInput struct {
	RunID      string `json:"run_id"`
	Transcript string `json:"transcript"`
	Mode       string `json:"mode"`
}

type DialogueAnalyzeOutput struct {
	Analysis models.DialogueAnalysis `json:"analysis"`
	Provider string                  `json:"provider,omitempty"`
}

type SummarizeInput struct {
	RunID       string                  `json:"run_id"`
	Transcript  string                  `json:"transcript"`
	Dialogue    models.DialogueAnalysis `json:"dialogue"`
	SummaryType string                  `json:"summary_type"`
}

type SummarizeOutput struct {
	Summary  models.SummaryResult `json:"summary"`
	Provider string               `json:"provider,omitempty"`
}

type RecommendInput struct {
	RunID    string                  `json:"run_id"`
	Dialogue models.DialogueAnalysis `json:"dialogue"`
	Summary  models.SummaryResult    `json:"summary"`
}

type RecommendOutput struct {
	Recommendations models.RecommendationSet `json:"recommendations"`
	Provider        string                   `json:"provider,omitempty"`
}

type PortfolioCheckInput struct {
	RunID      string `json:"run_id"`
	Transcript string `json:"transcript"`
}

type PortfolioCheckOutput struct {
	Findings []string `json:"findings"`
	Provider string   `json:"provider,omitempty"`
}

type WriteResultsInput struct {
	RunID   string                 `json:"run_id"`
	Results models.PipelineResults `json:"results"`
}

type WriteResultsOutput struct {
	Path string `json:"path"`
}

type WriteReportInput struct {
	RunID   string                 `json:"run_id"`
	Results models.PipelineResults `json:"results"`
}

type WriteReportOutput struct {
	Path string `json:"path"`
}

type UpdateRunInput struct {
	RunID          string `json:"run_id"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Status         string `json:"status"`
}

type MarkRunStatusInput struct {
	RunID      string `json:"run_id"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason,omitempty"`
}

type LogLLMCallInput struct {
	RunID        string `json:"run_id"`
	Operation    string `json:"operation"`
	ProviderName string `json:"provider_name"`
	Model        string `json:"model"`
	RequestID    string `json:"request_id"`
	Status       string `json:"status"`
	ErrorType    string `json:"error_type,omitempty"`
}

type ReleaseIndexesInput struct {
	RunID string `json:"run_id"`
}
