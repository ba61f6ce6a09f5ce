package models

import "time"

type AnalysisRun struct {
	RunID          string    `json:"run_id"`
	TranscriptPath string    `json:"transcript_path"`
	Status         string    `json:"status"`
	FailReason     string    `json:"fail_reason,omitempty"`
	ResultsPath    string    `json:"results_path,omitempty"`
	ReportPath     string    `json:"report_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ScoredChunk is one semantic-search hit: the chunk text, its cosine
// relevance score, and the chunk's position in the source corpus.
type ScoredChunk struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Index int     `json:"index"`
}

type RetrievalResult struct {
	Summary    string        `json:"summary"`
	RawResults []ScoredChunk `json:"raw_results"`
}

type DialogueAnalysis struct {
	Emotions  string   `json:"emotions,omitempty"`
	Topics    []string `json:"topics,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

// SummaryResult carries the outputs of the summarization stage. Sections is
// the structured path keyed by section name; FullSummary is the raw
// generated text kept as a fallback when section markers fail to parse;
// ChunkSummary is the rolling chunk-by-chunk path.
type SummaryResult struct {
	Sections     map[string]string `json:"sections,omitempty"`
	FullSummary  string            `json:"full_summary,omitempty"`
	ChunkSummary string            `json:"chunk_summary,omitempty"`
}

type RecommendationSet struct {
	UnmetNeeds             []string `json:"unmet_needs"`
	ProductRecommendations []string `json:"product_recommendations"`
	NextSteps              []string `json:"next_steps"`
}

// PipelineResults aggregates every stage's output for one run.
type PipelineResults struct {
	DialogueAnalysis DialogueAnalysis  `json:"dialogue_analysis"`
	Summary          SummaryResult     `json:"summary"`
	Recommendations  RecommendationSet `json:"recommendations"`
	ProductGaps      []string          `json:"product_gaps,omitempty"`
}
