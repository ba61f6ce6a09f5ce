package analysis

import (
	"strings"
	"testing"

	"advisorlens/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderReportFull(t *testing.T) {
	results := models.PipelineResults{
		Summary: structuredSummary(),
		Recommendations: models.RecommendationSet{
			UnmetNeeds:             []string{"Emergency fund"},
			ProductRecommendations: []string{"High-yield savings account"},
			NextSteps:              []string{"ACTION: Open 529 plan - TIMEFRAME: This week - PURPOSE: Start college savings"},
		},
		ProductGaps: []string{"Client asked about \"annuity\" but no matching product exists in the portfolio"},
	}

	report := RenderReport("run-1", results)

	for _, heading := range []string{
		"CLIENT GOALS & QUESTIONS",
		"ADVISOR'S ANALYSIS & RECOMMENDATIONS",
		"ACTION ITEMS & NEXT STEPS",
		"CLIENT'S REACTIONS & CONCERNS",
		"UNMET FINANCIAL NEEDS",
		"PRODUCT RECOMMENDATIONS",
		"SUGGESTED NEXT STEPS",
		"PORTFOLIO GAPS",
	} {
		assert.Contains(t, report, heading+"\n")
	}
	assert.Contains(t, report, "Run: run-1")
	assert.Contains(t, report, "- Emergency fund\n")
	assert.Contains(t, report, "- High-yield savings account\n")
}

func TestRenderReportEmptySectionsUsePlaceholders(t *testing.T) {
	report := RenderReport("run-2", models.PipelineResults{})

	assert.Contains(t, report, "N/A")
	assert.Contains(t, report, "None identified")
	assert.NotContains(t, report, "PORTFOLIO GAPS")
}

func TestRenderReportRawSummaryFallback(t *testing.T) {
	report := RenderReport("run-3", models.PipelineResults{
		Summary: models.SummaryResult{FullSummary: "a freeform meeting summary"},
	})

	assert.Contains(t, report, "MEETING SUMMARY")
	assert.Contains(t, report, "a freeform meeting summary")
	assert.False(t, strings.Contains(report, "CLIENT GOALS & QUESTIONS"))
}
