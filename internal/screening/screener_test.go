package screening

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rescreen/internal/ai"
	rescreenErrors "rescreen/internal/errors"
	"rescreen/internal/types"
)

// stubClient returns a canned response or error for every completion call.
type stubClient struct {
	response string
	usage    *ai.TokenUsage
	err      error

	lastPrompt string
}

func (s *stubClient) Complete(_ context.Context, prompt string) (string, *ai.TokenUsage, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", nil, s.err
	}
	return s.response, s.usage, nil
}

func (s *stubClient) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "stub", Available: true}
}

func (s *stubClient) Close() error { return nil }

func testLogger() *rescreenErrors.Logger {
	logger, _ := rescreenErrors.New("error")
	return logger
}

func twoCandidateRequest() types.EvaluationRequest {
	return types.EvaluationRequest{
		JobText: "Senior Go engineer with Kubernetes experience.",
		Candidates: []types.CandidateInput{
			{Name: "Alice Johnson", Text: "10 years Go, Kubernetes operators."},
			{Name: "Bob Lee", Text: "Frontend developer, React."},
		},
	}
}

func TestRankEndToEnd(t *testing.T) {
	client := &stubClient{
		response: "```json\n" + `[
			{"rank": 1, "name": "Alice Johnson", "score": 88, "strengths": ["Go depth"], "gaps": [], "assessment": "Excellent fit.", "recommendation": "Highly Recommended"},
			{"rank": 2, "name": "Bob Lee", "score": 35, "strengths": [], "gaps": ["No backend work"], "assessment": "Poor fit.", "recommendation": "Not Recommended"}
		]` + "\n```",
		usage: &ai.TokenUsage{InputTokens: 1200, OutputTokens: 300, TotalTokens: 1500},
	}
	screener := NewScreener(client, testLogger())

	results, usage, err := screener.Rank(context.Background(), twoCandidateRequest())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	if results[0].Name != "Alice Johnson" || results[0].Score != 88 || results[0].Rank != 1 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Name != "Bob Lee" || results[1].Score != 35 || results[1].Rank != 2 {
		t.Errorf("results[1] = %+v", results[1])
	}
	if usage == nil || usage.TotalTokens != 1500 {
		t.Errorf("usage = %+v, want total 1500", usage)
	}
}

func TestRankPromptContainsCandidates(t *testing.T) {
	client := &stubClient{response: `[]`}
	screener := NewScreener(client, testLogger())

	if _, _, err := screener.Rank(context.Background(), twoCandidateRequest()); err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	for _, fragment := range []string{
		"--- CANDIDATE 1: Alice Johnson ---",
		"--- CANDIDATE 2: Bob Lee ---",
		"Senior Go engineer with Kubernetes experience.",
	} {
		if !strings.Contains(client.lastPrompt, fragment) {
			t.Errorf("prompt is missing %q", fragment)
		}
	}
}

func TestRankUnparsableResponseYieldsPlaceholders(t *testing.T) {
	client := &stubClient{
		response: "Sorry, I can't produce JSON today.",
		usage:    &ai.TokenUsage{TotalTokens: 42},
	}
	screener := NewScreener(client, testLogger())

	results, usage, err := screener.Rank(context.Background(), twoCandidateRequest())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want one placeholder per candidate", len(results))
	}

	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("results[%d].Rank = %d, want %d", i, r.Rank, i+1)
		}
		if r.Score != 0 {
			t.Errorf("results[%d].Score = %d, want 0", i, r.Score)
		}
		if r.Assessment != failedParseAssessment {
			t.Errorf("results[%d].Assessment = %q", i, r.Assessment)
		}
		if r.Recommendation != types.RecommendationConsider {
			t.Errorf("results[%d].Recommendation = %q", i, r.Recommendation)
		}
		if len(r.Strengths) != 0 || len(r.Gaps) != 0 {
			t.Errorf("results[%d] has non-empty lists", i)
		}
	}
	if results[0].Name != "Alice Johnson" || results[1].Name != "Bob Lee" {
		t.Errorf("placeholder names = %q, %q", results[0].Name, results[1].Name)
	}
	if usage == nil || usage.TotalTokens != 42 {
		t.Errorf("usage = %+v, token usage should survive a parse failure", usage)
	}
}

func TestRankUpstreamErrorPropagates(t *testing.T) {
	upstream := rescreenErrors.NewAIError(rescreenErrors.ErrCodeUpstreamFailed, "model unavailable", nil)
	client := &stubClient{err: upstream}
	screener := NewScreener(client, testLogger())

	_, _, err := screener.Rank(context.Background(), twoCandidateRequest())
	if !errors.Is(err, upstream) {
		t.Errorf("Rank() error = %v, want the upstream error", err)
	}
}

func TestRankValidation(t *testing.T) {
	client := &stubClient{response: `[]`}
	screener := NewScreener(client, testLogger())

	t.Run("empty job text", func(t *testing.T) {
		req := twoCandidateRequest()
		req.JobText = ""
		if _, _, err := screener.Rank(context.Background(), req); err == nil {
			t.Error("Rank() expected error for empty job text")
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		req := twoCandidateRequest()
		req.Candidates = nil
		if _, _, err := screener.Rank(context.Background(), req); err == nil {
			t.Error("Rank() expected error for empty candidate list")
		}
	})
}
