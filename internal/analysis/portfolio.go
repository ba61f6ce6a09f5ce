package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"advisorlens/internal/providers"
)

// ProductInquiry is one product-specific request extracted from the
// transcript.
type ProductInquiry struct {
	ProductType  string `json:"product_type"`
	SpecificNeed string `json:"specific_need"`
	Context      string `json:"context"`
}

type inquiryDocument struct {
	ProductInquiries []ProductInquiry `json:"product_inquiries"`
}

// PortfolioChecker flags product inquiries from the conversation that the
// current product portfolio cannot satisfy. For each extracted inquiry it
// searches the product corpus and asks a temperature-zero relevance gate
// whether the best hit actually answers the inquiry.
type PortfolioChecker struct {
	retriever *Retriever
	llm       providers.LLMProvider
	temp      float64
}

func NewPortfolioChecker(retriever *Retriever, llm providers.LLMProvider, extractionTemp float64) *PortfolioChecker {
	return &PortfolioChecker{retriever: retriever, llm: llm, temp: extractionTemp}
}

// ExtractInquiries pulls the product-specific inquiries out of the
// transcript in JSON mode. Output that fails to parse means no extractable
// inquiries, not a failed stage.
func (p *PortfolioChecker) ExtractInquiries(ctx context.Context, transcript string) ([]ProductInquiry, error) {
	resp, _, err := p.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpInquiryExtraction,
		Temperature: p.temp,
		JSONMode:    true,
		Messages: []providers.Message{
			{Role: "system", Content: "You extract structured product inquiries from financial conversations. Respond with JSON only."},
			{Role: "user", Content: fmt.Sprintf(inquiryExtractionPrompt, transcript)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extract product inquiries: %w", err)
	}

	var doc inquiryDocument
	if err := json.Unmarshal([]byte(StripCodeFence(resp.Text)), &doc); err != nil {
		return nil, nil
	}
	return doc.ProductInquiries, nil
}

// checkRelevance asks whether the retrieved passage answers the inquiry.
// Only a literal "true" counts as covered.
func (p *PortfolioChecker) checkRelevance(ctx context.Context, inquiry, retrieved string) (bool, error) {
	resp, _, err := p.llm.Complete(ctx, providers.CompletionRequest{
		Operation:   OpRelevanceCheck,
		Temperature: 0,
		Messages: []providers.Message{
			{Role: "system", Content: "You judge whether a retrieved passage answers a product inquiry. Answer true or false."},
			{Role: "user", Content: fmt.Sprintf(relevanceCheckPrompt, inquiry, retrieved)},
		},
	})
	if err != nil {
		return false, fmt.Errorf("relevance check: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(resp.Text), "true"), nil
}

// Run returns one finding per inquiry the portfolio cannot cover. An empty
// result means every inquiry matched an existing product, or the transcript
// contained no product inquiries at all.
func (p *PortfolioChecker) Run(ctx context.Context, runID, transcript string) ([]string, error) {
	inquiries, err := p.ExtractInquiries(ctx, transcript)
	if err != nil {
		return nil, err
	}

	findings := []string{}
	for _, inq := range inquiries {
		query := inq.ProductType
		if inq.SpecificNeed != "" {
			query += ": " + inq.SpecificNeed
		}
		result, err := p.retriever.Retrieve(ctx, runID, CorpusProduct, query, 1)
		if err != nil {
			return nil, fmt.Errorf("check inquiry %q: %w", inq.ProductType, err)
		}
		if len(result.RawResults) == 0 {
			findings = append(findings, gapFinding(inq))
			continue
		}
		covered, err := p.checkRelevance(ctx, query, result.RawResults[0].Text)
		if err != nil {
			return nil, fmt.Errorf("check inquiry %q: %w", inq.ProductType, err)
		}
		if !covered {
			findings = append(findings, gapFinding(inq))
		}
	}
	return findings, nil
}

func gapFinding(inq ProductInquiry) string {
	msg := fmt.Sprintf("Client asked about %q but no matching product exists in the portfolio", inq.ProductType)
	if inq.SpecificNeed != "" {
		msg += fmt.Sprintf(" (need: %s)", inq.SpecificNeed)
	}
	return msg
}
