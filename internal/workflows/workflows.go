package workflows

import (
	"strings"
	"time"

	"advisorlens/internal/activities"
	"advisorlens/internal/analysis"
	"advisorlens/internal/providers"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetRunProgress = "GetRunProgress"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
)

// MeetingAnalysisWorkflow runs the full transcript pipeline: load, dialogue
// analysis, summarization, recommendation, portfolio check, then artifact
// persistence. Recommendation and portfolio failures degrade the run to
// partial; a missing transcript fails it; persistence failures still return
// the in-memory results.
func MeetingAnalysisWorkflow(ctx workflow.Context, input MeetingAnalysisInput) (MeetingAnalysisOutput, error) {
	progress := RunProgress{
		RunID:  input.RunID,
		Status: StatusProcessing,
		Steps:  map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetRunProgress, func() (RunProgress, error) {
		return progress, nil
	}); err != nil {
		return MeetingAnalysisOutput{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	mode := input.AnalysisMode
	if strings.TrimSpace(mode) == "" {
		mode = analysis.ModeFull
	}
	summaryType := input.SummaryType
	if strings.TrimSpace(summaryType) == "" {
		summaryType = analysis.SummaryFull
	}

	out := MeetingAnalysisOutput{RunID: input.RunID, Status: StatusProcessing}
	_ = workflow.ExecuteActivity(ctx, "UpdateRunActivity", activities.UpdateRunInput{
		RunID: input.RunID, TranscriptPath: input.TranscriptPath, Status: StatusProcessing,
	}).Get(ctx, nil)

	progress.CurrentStep = "load_transcript"
	progress.Steps[progress.CurrentStep] = "processing"
	var loadOut activities.LoadTranscriptOutput
	if err := workflow.ExecuteActivity(ctx, "LoadTranscriptActivity", activities.LoadTranscriptInput{
		RunID: input.RunID, TranscriptPath: input.TranscriptPath,
	}).Get(ctx, &loadOut); err != nil {
		progress.Steps[progress.CurrentStep] = "failed"
		if isTranscriptMissingError(err) {
			progress.Status = StatusFailed
			progress.FailReason = "transcript source not found"
			out.Status = StatusFailed
			out.FailReason = progress.FailReason
			finishRun(ctx, input.RunID, out)
			return out, nil
		}
		return MeetingAnalysisOutput{}, err
	}
	progress.Steps[progress.CurrentStep] = "done"
	progress.TranscriptSHA = loadOut.TranscriptSHA

	progress.CurrentStep = "dialogue_analysis"
	progress.Steps[progress.CurrentStep] = "processing"
	var dialogueOut activities.DialogueAnalyzeOutput
	if err := workflow.ExecuteActivity(ctx, "DialogueAnalyzeActivity", activities.DialogueAnalyzeInput{
		RunID: input.RunID, Transcript: loadOut.Transcript, Mode: mode,
	}).Get(ctx, &dialogueOut); err != nil {
		progress.Steps[progress.CurrentStep] = "failed"
		progress.Status = StatusFailed
		progress.FailReason = err.Error()
		out.Status = StatusFailed
		out.FailReason = err.Error()
		logStage(ctx, input.RunID, "dialogue_analysis", "", err)
		finishRun(ctx, input.RunID, out)
		return out, err
	}
	progress.Steps[progress.CurrentStep] = "done"
	logStage(ctx, input.RunID, "dialogue_analysis", dialogueOut.Provider, nil)
	out.Results.DialogueAnalysis = dialogueOut.Analysis

	progress.CurrentStep = "summarize"
	progress.Steps[progress.CurrentStep] = "processing"
	var summaryOut activities.SummarizeOutput
	if err := workflow.ExecuteActivity(ctx, "SummarizeActivity", activities.SummarizeInput{
		RunID: input.RunID, Transcript: loadOut.Transcript, Dialogue: dialogueOut.Analysis, SummaryType: summaryType,
	}).Get(ctx, &summaryOut); err != nil {
		progress.Steps[progress.CurrentStep] = "failed"
		progress.Status = StatusFailed
		progress.FailReason = err.Error()
		out.Status = StatusFailed
		out.FailReason = err.Error()
		logStage(ctx, input.RunID, "summarize", "", err)
		finishRun(ctx, input.RunID, out)
		return out, err
	}
	progress.Steps[progress.CurrentStep] = "done"
	logStage(ctx, input.RunID, "summarize", summaryOut.Provider, nil)
	out.Results.Summary = summaryOut.Summary

	out.Status = StatusCompleted

	progress.CurrentStep = "recommend"
	progress.Steps[progress.CurrentStep] = "processing"
	var recOut activities.RecommendOutput
	if err := workflow.ExecuteActivity(ctx, "RecommendActivity", activities.RecommendInput{
		RunID: input.RunID, Dialogue: dialogueOut.Analysis, Summary: summaryOut.Summary,
	}).Get(ctx, &recOut); err != nil {
		progress.Steps[progress.CurrentStep] = "failed"
		progress.Degraded = append(progress.Degraded, "recommend")
		out.Status = StatusPartial
		out.FailReason = appendReason(out.FailReason, "recommendation stage failed")
		logStage(ctx, input.RunID, "recommend", "", err)
	} else {
		progress.Steps[progress.CurrentStep] = "done"
		logStage(ctx, input.RunID, "recommend", recOut.Provider, nil)
		out.Results.Recommendations = recOut.Recommendations
	}

	progress.CurrentStep = "portfolio_check"
	progress.Steps[progress.CurrentStep] = "processing"
	var portfolioOut activities.PortfolioCheckOutput
	if err := workflow.ExecuteActivity(ctx, "PortfolioCheckActivity", activities.PortfolioCheckInput{
		RunID: input.RunID, Transcript: loadOut.Transcript,
	}).Get(ctx, &portfolioOut); err != nil {
		progress.Steps[progress.CurrentStep] = "failed"
		progress.Degraded = append(progress.Degraded, "portfolio_check")
		out.Status = StatusPartial
		out.FailReason = appendReason(out.FailReason, "portfolio check failed")
		logStage(ctx, input.RunID, "portfolio_check", "", err)
	} else {
		progress.Steps[progress.CurrentStep] = "done"
		logStage(ctx, input.RunID, "portfolio_check", portfolioOut.Provider, nil)
		out.Results.ProductGaps = portfolioOut.Findings
	}

	progress.CurrentStep = "persist"
	progress.Steps[progress.CurrentStep] = "processing"
	var resultsOut activities.WriteResultsOutput
	if err := workflow.ExecuteActivity(ctx, "WriteResultsActivity", activities.WriteResultsInput{
		RunID: input.RunID, Results: out.Results,
	}).Get(ctx, &resultsOut); err != nil {
		progress.Degraded = append(progress.Degraded, "persist_results")
	} else {
		out.ResultsPath = resultsOut.Path
	}
	var reportOut activities.WriteReportOutput
	if err := workflow.ExecuteActivity(ctx, "WriteReportActivity", activities.WriteReportInput{
		RunID: input.RunID, Results: out.Results,
	}).Get(ctx, &reportOut); err != nil {
		progress.Degraded = append(progress.Degraded, "persist_report")
	} else {
		out.ReportPath = reportOut.Path
	}
	progress.Steps[progress.CurrentStep] = "done"

	progress.Status = out.Status
	progress.FailReason = out.FailReason
	progress.CurrentStep = "done"
	finishRun(ctx, input.RunID, out)
	return out, nil
}

// finishRun records the terminal state and frees the run's indexes. Both are
// best effort; the workflow result stands on its own. Artifact paths are
// recorded by the write activities themselves, so only status and reason
// remain to persist here.
func finishRun(ctx workflow.Context, runID string, out MeetingAnalysisOutput) {
	_ = workflow.ExecuteActivity(ctx, "MarkRunStatusActivity", activities.MarkRunStatusInput{
		RunID:      runID,
		Status:     out.Status,
		FailReason: out.FailReason,
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "ReleaseIndexesActivity", activities.ReleaseIndexesInput{RunID: runID}).Get(ctx, nil)
}

// logStage records one audit row per pipeline stage. Best effort; audit
// failures never affect the run outcome.
func logStage(ctx workflow.Context, runID, operation, providerName string, stageErr error) {
	in := activities.LogLLMCallInput{
		RunID:        runID,
		Operation:    operation,
		ProviderName: providerName,
		RequestID:    runID + "-" + operation,
		Status:       "ok",
	}
	if stageErr != nil {
		in.Status = "failed"
		in.ErrorType = string(providers.ClassifyError(stageErr))
	}
	_ = workflow.ExecuteActivity(ctx, "LogLLMCallActivity", in).Get(ctx, nil)
}

func appendReason(existing, reason string) string {
	if existing == "" {
		return reason
	}
	return existing + "; " + reason
}

func isTranscriptMissingError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "transcript source not found")
}
