package workflows

import "advisorlens/internal/models"

type MeetingAnalysisInput struct {
	RunID          string `json:"run_id"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	AnalysisMode   string `json:"analysis_mode,omitempty"`
	SummaryType    string `json:"summary_type,omitempty"`
}

type MeetingAnalysisOutput struct {
	RunID       string                 `json:"run_id"`
	Status      string                 `json:"status"`
	FailReason  string                 `json:"fail_reason,omitempty"`
	Results     models.PipelineResults `json:"results"`
	ResultsPath string                 `json:"results_path,omitempty"`
	ReportPath  string                 `json:"report_path,omitempty"`
}

type RunProgress struct {
	RunID         string            `json:"run_id"`
	CurrentStep   string            `json:"current_step"`
	TranscriptSHA string            `json:"transcript_sha,omitempty"`
	Status        string            `json:"status"`
	FailReason    string            `json:"fail_reason,omitempty"`
	Steps         map[string]string `json:"steps"`
	Degraded      []string          `json:"degraded_stages,omitempty"`
}
