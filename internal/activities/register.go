package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.LoadTranscriptActivity)
	w.RegisterActivity(a.DialogueAnalyzeActivity)
	w.RegisterActivity(a.SummarizeActivity)
	w.RegisterActivity(a.RecommendActivity)
	w.RegisterActivity(a.PortfolioCheckActivity)
	w.RegisterActivity(a.WriteResultsActivity)
	w.RegisterActivity(a.WriteReportActivity)
	w.RegisterActivity(a.UpdateRunActivity)
	w.RegisterActivity(a.MarkRunStatusActivity)
	w.RegisterActivity(a.LogLLMCallActivity)
	w.RegisterActivity(a.ReleaseIndexesActivity)
}
