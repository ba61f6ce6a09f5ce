package providers

import (
	"context"
	"strings"
	"testing"
)

func TestMockCompleteShapesByOperation(t *testing.T) {
	m := NewMockProvider(8)
	ctx := context.Background()

	resp, _, err := m.Complete(ctx, CompletionRequest{Operation: "emotion_analysis"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Text, "Step 3 - Summarize emotional insights:") {
		t.Fatalf("emotion output missing summary marker: %q", resp.Text)
	}

	resp, _, err = m.Complete(ctx, CompletionRequest{Operation: "relevance_check", Temperature: 0})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(resp.Text) != "true" {
		t.Fatalf("relevance check should answer true/false, got %q", resp.Text)
	}
}

func TestMockEmbedIsDeterministic(t *testing.T) {
	m := NewMockProvider(8)
	a, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"retirement"}, Dimension: 8})
	if err != nil {
		t.Fatal(err)
	}
	b, _, _ := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"retirement"}, Dimension: 8})
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("embedding not deterministic at %d", i)
		}
	}
}
