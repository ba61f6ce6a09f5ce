package activities

import (
	"context"

	"advisorlens/internal/analysis"
	"advisorlens/internal/config"
	"advisorlens/internal/index"
	"advisorlens/internal/loader"
	"advisorlens/internal/models"
	"advisorlens/internal/providers"
	"advisorlens/internal/storage"
	"advisorlens/internal/util"
)

// Activities carries the shared pipeline state for one worker. The index
// cache lives here so every activity of a run sees the same built indexes.
type Activities struct {
	cfg         config.Config
	runRepo     *storage.RunRepo
	auditRepo   *storage.LLMAuditRepo
	loader      *loader.Loader
	cache       *index.Cache
	manager     *providers.Manager
	dialogue    *analysis.Dialogue
	summarizer  *analysis.Summarizer
	recommender *analysis.Recommender
	portfolio   *analysis.PortfolioChecker
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg.LLMProviders, cfg.EmbedProviders, cfg.EmbedDim)
	if err != nil {
		return nil, err
	}
	ld := loader.New(cfg.DataInRoot)
	cache := index.NewCache(pm.Embedder(), cfg.ChunkSize, cfg.ChunkOverlap, cfg.EmbedDim)
	retriever := analysis.NewRetriever(cache, ld, pm.LLM(), cfg.RetrievalTopK, cfg.AnalysisTemp)
	return &Activities{
		cfg:         cfg,
		runRepo:     storage.NewRunRepo(db),
		auditRepo:   storage.NewLLMAuditRepo(db),
		loader:      ld,
		cache:       cache,
		manager:     pm,
		dialogue:    analysis.NewDialogue(pm.LLM(), cfg.AnalysisTemp),
		summarizer:  analysis.NewSummarizer(pm.LLM(), cfg.AnalysisTemp, cfg.ChunkSize, cfg.ChunkOverlap),
		recommender: analysis.NewRecommender(retriever, pm.LLM(), cfg.AnalysisTemp),
		portfolio:   analysis.NewPortfolioChecker(retriever, pm.LLM(), cfg.ExtractionTemp),
	}, nil
}

func (a *Activities) LoadTranscriptActivity(ctx context.Context, in LoadTranscriptInput) (LoadTranscriptOutput, error) {
	_ = ctx
	text, err := a.loader.Transcript(in.TranscriptPath)
	if err != nil {
		return LoadTranscriptOutput{}, err
	}
	return LoadTranscriptOutput{
		Transcript:    text,
		TranscriptSHA: util.SHA256Hex([]byte(text)),
	}, nil
}

func (a *Activities) DialogueAnalyzeActivity(ctx context.Context, in DialogueAnalyzeInput) (DialogueAnalyzeOutput, error) {
	out, err := a.dialogue.Run(ctx, in.Transcript, in.Mode)
	if err != nil {
		return DialogueAnalyzeOutput{}, err
	}
	return DialogueAnalyzeOutput{Analysis: out, Provider: a.manager.LLMRef().Name}, nil
}

func (a *Activities) SummarizeActivity(ctx context.Context, in SummarizeInput) (SummarizeOutput, error) {
	out, err := a.summarizer.Run(ctx, in.Transcript, in.Dialogue, in.SummaryType)
	if err != nil {
		return SummarizeOutput{}, err
	}
	return SummarizeOutput{Summary: out, Provider: a.manager.LLMRef().Name}, nil
}

func (a *Activities) RecommendActivity(ctx context.Context, in RecommendInput) (RecommendOutput, error) {
	out, err := a.recommender.Run(ctx, in.RunID, in.Dialogue, in.Summary)
	if err != nil {
		return RecommendOutput{}, err
	}
	return RecommendOutput{Recommendations: out, Provider: a.manager.LLMRef().Name}, nil
}

func (a *Activities) PortfolioCheckActivity(ctx context.Context, in PortfolioCheckInput) (PortfolioCheckOutput, error) {
	findings, err := a.portfolio.Run(ctx, in.RunID, in.Transcript)
	if err != nil {
		return PortfolioCheckOutput{}, err
	}
	if findings == nil {
		findings = []string{}
	}
	return PortfolioCheckOutput{Findings: findings, Provider: a.manager.LLMRef().Name}, nil
}

func (a *Activities) WriteResultsActivity(ctx context.Context, in WriteResultsInput) (WriteResultsOutput, error) {
	path := util.SafeJoin(a.cfg.DataOutRoot, "meeting_analysis_"+in.RunID+".json")
	if err := util.WriteJSONAtomic(path, in.Results); err != nil {
		return WriteResultsOutput{}, err
	}
	if err := a.runRepo.SetArtifacts(ctx, in.RunID, path, ""); err != nil {
		return WriteResultsOutput{}, err
	}
	return WriteResultsOutput{Path: path}, nil
}

func (a *Activities) WriteReportActivity(ctx context.Context, in WriteReportInput) (WriteReportOutput, error) {
	path := util.SafeJoin(a.cfg.DataOutRoot, "meeting_report_"+in.RunID+".txt")
	if err := util.WriteTextAtomic(path, analysis.RenderReport(in.RunID, in.Results)); err != nil {
		return WriteReportOutput{}, err
	}
	if err := a.runRepo.SetArtifacts(ctx, in.RunID, "", path); err != nil {
		return WriteReportOutput{}, err
	}
	return WriteReportOutput{Path: path}, nil
}

func (a *Activities) UpdateRunActivity(ctx context.Context, in UpdateRunInput) error {
	return a.runRepo.UpsertRun(ctx, models.AnalysisRun{
		RunID:          in.RunID,
		TranscriptPath: in.TranscriptPath,
		Status:         in.Status,
	})
}

func (a *Activities) MarkRunStatusActivity(ctx context.Context, in MarkRunStatusInput) error {
	return a.runRepo.UpdateRunStatus(ctx, in.RunID, in.Status, in.FailReason)
}

func (a *Activities) LogLLMCallActivity(ctx context.Context, in LogLLMCallInput) error {
	return a.auditRepo.Insert(ctx, storage.LLMCallRecord{
		RunID:        in.RunID,
		Operation:    in.Operation,
		ProviderName: in.ProviderName,
		Model:        in.Model,
		RequestID:    in.RequestID,
		Status:       in.Status,
		ErrorType:    in.ErrorType,
	})
}

func (a *Activities) ReleaseIndexesActivity(ctx context.Context, in ReleaseIndexesInput) error {
	_ = ctx
	a.cache.Release(in.RunID)
	return nil
}
