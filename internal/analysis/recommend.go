package analysis

import (
	"context"
	"fmt"
	"strings"

	"advisorlens/internal/models"
	"advisorlens/internal/providers"
)

// Recommender turns the dialogue analysis and summary into unmet needs,
// product recommendations grounded in the product corpus, and prioritized
// next steps for the advisor.
type Recommender struct {
	retriever *Retriever
	llm       providers.LLMProvider
	temp      float64
}

func NewRecommender(retriever *Retriever, llm providers.LLMProvider, temp float64) *Recommender {
	return &Recommender{retriever: retriever, llm: llm, temp: temp}
}

// IdentifyUnmetNeeds queries the client corpus for the client's financial
// situation and asks for prioritized gaps given the topics and emotional
// insight from the dialogue stage.
func (r *Recommender) IdentifyUnmetNeeds(ctx context.Context, runID string, dialogue models.DialogueAnalysis) ([]string, string, error) {
	clientInfo, err := r.retriever.Retrieve(ctx, runID, CorpusClient, "client's financial situation, goals, and current products", 0)
	if err != nil {
		return nil, "", fmt.Errorf("retrieve client context: %w", err)
	}

	resp, _, err := r.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpUnmetNeeds,
		Temperature: r.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial advisor's analyst identifying gaps in a client's financial coverage."},
			{Role: "user", Content: fmt.Sprintf(unmetNeedsPrompt, clientInfo.Summary, strings.Join(dialogue.Topics, "\n"), dialogue.Emotions)},
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("identify unmet needs: %w", err)
	}
	return SplitLines(resp.Text), clientInfo.Summary, nil
}

// RecommendProducts searches the product corpus using the unmet needs as the
// query, then asks for prioritized recommendations grounded in the retrieved
// product information.
func (r *Recommender) RecommendProducts(ctx context.Context, runID, clientSummary string, unmetNeeds []string) ([]string, error) {
	needs := strings.Join(unmetNeeds, "\n")
	productInfo, err := r.retriever.Retrieve(ctx, runID, CorpusProduct, needs, 0)
	if err != nil {
		return nil, fmt.Errorf("retrieve product context: %w", err)
	}

	resp, _, err := r.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpProductRecommendation,
		Temperature: r.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial advisor's analyst recommending products that fit a specific client."},
			{Role: "user", Content: fmt.Sprintf(productRecommendationPrompt, clientSummary, needs, productInfo.Summary)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recommend products: %w", err)
	}
	return SplitLines(resp.Text), nil
}

// SuggestNextSteps combines the structured summary sections with the product
// recommendations into a prioritized action list. It requires the structured
// summary; callers without one should skip this step.
func (r *Recommender) SuggestNextSteps(ctx context.Context, sections map[string]string, productRecs []string) ([]string, error) {
	resp, _, err := r.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpNextSteps,
		Temperature: r.temp,
		Messages: []providers.Message{
			{Role: "system", Content: "You are a financial advisor's assistant planning follow-up actions."},
			{Role: "user", Content: fmt.Sprintf(nextStepsPrompt,
				sections["client_goals"],
				sections["advisor_recommendations"],
				sections["action_items"],
				strings.Join(productRecs, "\n"))},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggest next steps: %w", err)
	}
	return SplitLines(resp.Text), nil
}

// Run executes the full recommendation stage. Next steps depend on the
// structured summary sections; when the summary stage produced none, the
// next-step list is empty rather than an error.
func (r *Recommender) Run(ctx context.Context, runID string, dialogue models.DialogueAnalysis, summary models.SummaryResult) (models.RecommendationSet, error) {
	out := models.RecommendationSet{
		UnmetNeeds:             []string{},
		ProductRecommendations: []string{},
		NextSteps:              []string{},
	}

	needs, clientSummary, err := r.IdentifyUnmetNeeds(ctx, runID, dialogue)
	if err != nil {
		return out, err
	}
	out.UnmetNeeds = needs

	recs, err := r.RecommendProducts(ctx, runID, clientSummary, needs)
	if err != nil {
		return out, err
	}
	out.ProductRecommendations = recs

	if len(summary.Sections) == 0 {
		return out, nil
	}
	steps, err := r.SuggestNextSteps(ctx, summary.Sections, recs)
	if err != nil {
		return out, err
	}
	out.NextSteps = steps
	return out, nil
}
