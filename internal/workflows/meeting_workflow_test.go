package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"advisorlens/internal/activities"
	"advisorlens/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func newMeetingEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(MeetingAnalysisWorkflow)
	registerActivityName(env, "UpdateRunActivity", func(context.Context, activities.UpdateRunInput) error { return nil })
	registerActivityName(env, "MarkRunStatusActivity", func(context.Context, activities.MarkRunStatusInput) error { return nil })
	registerActivityName(env, "LoadTranscriptActivity", func(context.Context, activities.LoadTranscriptInput) (activities.LoadTranscriptOutput, error) {
		return activities.LoadTranscriptOutput{}, nil
	})
	registerActivityName(env, "DialogueAnalyzeActivity", func(context.Context, activities.DialogueAnalyzeInput) (activities.DialogueAnalyzeOutput, error) {
		return activities.DialogueAnalyzeOutput{}, nil
	})
	registerActivityName(env, "SummarizeActivity", func(context.Context, activities.SummarizeInput) (activities.SummarizeOutput, error) {
		return activities.SummarizeOutput{}, nil
	})
	registerActivityName(env, "RecommendActivity", func(context.Context, activities.RecommendInput) (activities.RecommendOutput, error) {
		return activities.RecommendOutput{}, nil
	})
	registerActivityName(env, "PortfolioCheckActivity", func(context.Context, activities.PortfolioCheckInput) (activities.PortfolioCheckOutput, error) {
		return activities.PortfolioCheckOutput{}, nil
	})
	registerActivityName(env, "WriteResultsActivity", func(context.Context, activities.WriteResultsInput) (activities.WriteResultsOutput, error) {
		return activities.WriteResultsOutput{}, nil
	})
	registerActivityName(env, "WriteReportActivity", func(context.Context, activities.WriteReportInput) (activities.WriteReportOutput, error) {
		return activities.WriteReportOutput{}, nil
	})
	registerActivityName(env, "ReleaseIndexesActivity", func(context.Context, activities.ReleaseIndexesInput) error { return nil })
	registerActivityName(env, "LogLLMCallActivity", func(context.Context, activities.LogLLMCallInput) error { return nil })
	env.OnActivity("LogLLMCallActivity", mock.Anything, mock.Anything).Return(nil)
	return env
}

func TestMeetingAnalysisWorkflowSuccess(t *testing.T) {
	env := newMeetingEnv(t)

	dialogue := models.DialogueAnalysis{Emotions: "anxious", Topics: []string{"retirement"}, Questions: []string{"enough saved?"}}
	summary := models.SummaryResult{Sections: map[string]string{"client_goals": "retire at 60"}, FullSummary: "raw"}
	recs := models.RecommendationSet{UnmetNeeds: []string{"emergency fund"}, ProductRecommendations: []string{"savings account"}, NextSteps: []string{"open account"}}

	env.OnActivity("UpdateRunActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("MarkRunStatusActivity", mock.Anything, mock.MatchedBy(func(in activities.MarkRunStatusInput) bool {
		return in.Status == StatusCompleted && in.FailReason == ""
	})).Return(nil)
	env.OnActivity("LoadTranscriptActivity", mock.Anything, mock.Anything).Return(activities.LoadTranscriptOutput{Transcript: "advisor: hello"}, nil)
	env.OnActivity("DialogueAnalyzeActivity", mock.Anything, mock.Anything).Return(activities.DialogueAnalyzeOutput{Analysis: dialogue}, nil)
	env.OnActivity("SummarizeActivity", mock.Anything, mock.Anything).Return(activities.SummarizeOutput{Summary: summary}, nil)
	env.OnActivity("RecommendActivity", mock.Anything, mock.Anything).Return(activities.RecommendOutput{Recommendations: recs}, nil)
	env.OnActivity("PortfolioCheckActivity", mock.Anything, mock.Anything).Return(activities.PortfolioCheckOutput{Findings: []string{}}, nil)
	env.OnActivity("WriteResultsActivity", mock.Anything, mock.Anything).Return(activities.WriteResultsOutput{Path: "/out/meeting_analysis_run-1.json"}, nil)
	env.OnActivity("WriteReportActivity", mock.Anything, mock.Anything).Return(activities.WriteReportOutput{Path: "/out/meeting_report_run-1.txt"}, nil)
	env.OnActivity("ReleaseIndexesActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(MeetingAnalysisWorkflow, MeetingAnalysisInput{RunID: "run-1"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out MeetingAnalysisOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, StatusCompleted, out.Status)
	require.Equal(t, dialogue, out.Results.DialogueAnalysis)
	require.Equal(t, summary, out.Results.Summary)
	require.Equal(t, recs, out.Results.Recommendations)
	require.Equal(t, "/out/meeting_analysis_run-1.json", out.ResultsPath)
	require.Equal(t, "/out/meeting_report_run-1.txt", out.ReportPath)
}

func TestMeetingAnalysisWorkflowRecommendFailureIsPartial(t *testing.T) {
	env := newMeetingEnv(t)

	dialogue := models.DialogueAnalysis{Topics: []string{"retirement"}}
	summary := models.SummaryResult{FullSummary: "raw"}

	env.OnActivity("UpdateRunActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("MarkRunStatusActivity", mock.Anything, mock.MatchedBy(func(in activities.MarkRunStatusInput) bool {
		return in.Status == StatusPartial && strings.Contains(in.FailReason, "recommendation stage failed")
	})).Return(nil)
	env.OnActivity("LoadTranscriptActivity", mock.Anything, mock.Anything).Return(activities.LoadTranscriptOutput{Transcript: "advisor: hello"}, nil)
	env.OnActivity("DialogueAnalyzeActivity", mock.Anything, mock.Anything).Return(activities.DialogueAnalyzeOutput{Analysis: dialogue}, nil)
	env.OnActivity("SummarizeActivity", mock.Anything, mock.Anything).Return(activities.SummarizeOutput{Summary: summary}, nil)
	env.OnActivity("RecommendActivity", mock.Anything, mock.Anything).Return(activities.RecommendOutput{}, errors.New("quota exceeded"))
	env.OnActivity("PortfolioCheckActivity", mock.Anything, mock.Anything).Return(activities.PortfolioCheckOutput{Findings: []string{"gap"}}, nil)
	env.OnActivity("WriteResultsActivity", mock.Anything, mock.Anything).Return(activities.WriteResultsOutput{Path: "/out/meeting_analysis_run-2.json"}, nil)
	env.OnActivity("WriteReportActivity", mock.Anything, mock.Anything).Return(activities.WriteReportOutput{Path: "/out/meeting_report_run-2.txt"}, nil)
	env.OnActivity("ReleaseIndexesActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(MeetingAnalysisWorkflow, MeetingAnalysisInput{RunID: "run-2"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out MeetingAnalysisOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, StatusPartial, out.Status)
	require.Equal(t, dialogue, out.Results.DialogueAnalysis)
	require.Equal(t, summary, out.Results.Summary)
	require.Empty(t, out.Results.Recommendations.ProductRecommendations)
	require.Equal(t, []string{"gap"}, out.Results.ProductGaps)
	require.Contains(t, out.FailReason, "recommendation stage failed")
}

func TestMeetingAnalysisWorkflowMissingTranscriptFails(t *testing.T) {
	env := newMeetingEnv(t)

	env.OnActivity("UpdateRunActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("MarkRunStatusActivity", mock.Anything, mock.MatchedBy(func(in activities.MarkRunStatusInput) bool {
		return in.Status == StatusFailed && in.FailReason == "transcript source not found"
	})).Return(nil)
	env.OnActivity("LoadTranscriptActivity", mock.Anything, mock.Anything).Return(activities.LoadTranscriptOutput{}, errors.New("transcript source not found: /data/in/transcript.txt"))
	env.OnActivity("ReleaseIndexesActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(MeetingAnalysisWorkflow, MeetingAnalysisInput{RunID: "run-3"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out MeetingAnalysisOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, StatusFailed, out.Status)
	require.Equal(t, "transcript source not found", out.FailReason)
}

func TestMeetingAnalysisWorkflowPersistFailureKeepsResults(t *testing.T) {
	env := newMeetingEnv(t)

	summary := models.SummaryResult{FullSummary: "raw"}

	env.OnActivity("UpdateRunActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("MarkRunStatusActivity", mock.Anything, mock.MatchedBy(func(in activities.MarkRunStatusInput) bool {
		return in.Status == StatusCompleted
	})).Return(nil)
	env.OnActivity("LoadTranscriptActivity", mock.Anything, mock.Anything).Return(activities.LoadTranscriptOutput{Transcript: "advisor: hello"}, nil)
	env.OnActivity("DialogueAnalyzeActivity", mock.Anything, mock.Anything).Return(activities.DialogueAnalyzeOutput{}, nil)
	env.OnActivity("SummarizeActivity", mock.Anything, mock.Anything).Return(activities.SummarizeOutput{Summary: summary}, nil)
	env.OnActivity("RecommendActivity", mock.Anything, mock.Anything).Return(activities.RecommendOutput{}, nil)
	env.OnActivity("PortfolioCheckActivity", mock.Anything, mock.Anything).Return(activities.PortfolioCheckOutput{}, nil)
	env.OnActivity("WriteResultsActivity", mock.Anything, mock.Anything).Return(activities.WriteResultsOutput{}, errors.New("disk full"))
	env.OnActivity("WriteReportActivity", mock.Anything, mock.Anything).Return(activities.WriteReportOutput{}, errors.New("disk full"))
	env.OnActivity("ReleaseIndexesActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(MeetingAnalysisWorkflow, MeetingAnalysisInput{RunID: "run-4"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out MeetingAnalysisOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, StatusCompleted, out.Status)
	require.Equal(t, summary, out.Results.Summary)
	require.Empty(t, out.ResultsPath)
	require.Empty(t, out.ReportPath)
}
