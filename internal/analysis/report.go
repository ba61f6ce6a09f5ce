package analysis

import (
	"fmt"
	"strings"

	"advisorlens/internal/models"
)

// RenderReport formats the aggregated pipeline results as the plain-text
// advisor report. Section order and headings are fixed; empty sections
// render with an explicit placeholder instead of being dropped.
func RenderReport(runID string, results models.PipelineResults) string {
	var b strings.Builder

	b.WriteString("MEETING ANALYSIS REPORT\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", runID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(results.Summary.Sections) == 0 && strings.TrimSpace(results.Summary.FullSummary) != "" {
		// Section markers failed to parse; show the raw summary once rather
		// than losing it.
		writeSection(&b, "MEETING SUMMARY", results.Summary.FullSummary)
	} else {
		writeSection(&b, "CLIENT GOALS & QUESTIONS", sectionOr(results.Summary, "client_goals", "N/A"))
		writeSection(&b, "ADVISOR'S ANALYSIS & RECOMMENDATIONS", sectionOr(results.Summary, "advisor_recommendations", "N/A"))
		writeSection(&b, "ACTION ITEMS & NEXT STEPS", sectionOr(results.Summary, "action_items", "None"))
		writeSection(&b, "CLIENT'S REACTIONS & CONCERNS", sectionOr(results.Summary, "client_reactions", "N/A"))
	}

	writeListSection(&b, "UNMET FINANCIAL NEEDS", results.Recommendations.UnmetNeeds, "None identified")
	writeListSection(&b, "PRODUCT RECOMMENDATIONS", results.Recommendations.ProductRecommendations, "None")
	writeListSection(&b, "SUGGESTED NEXT STEPS", results.Recommendations.NextSteps, "None")

	if len(results.ProductGaps) > 0 {
		writeListSection(&b, "PORTFOLIO GAPS", results.ProductGaps, "None")
	}

	return b.String()
}

func sectionOr(summary models.SummaryResult, key, placeholder string) string {
	if v, ok := summary.Sections[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return placeholder
}

func writeSection(b *strings.Builder, heading, body string) {
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("-", len(heading)) + "\n")
	b.WriteString(strings.TrimSpace(body) + "\n\n")
}

func writeListSection(b *strings.Builder, heading string, items []string, placeholder string) {
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("-", len(heading)) + "\n")
	if len(items) == 0 {
		b.WriteString(placeholder + "\n\n")
		return
	}
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}
