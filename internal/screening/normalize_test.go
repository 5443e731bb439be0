package screening

import (
	"errors"
	"reflect"
	"testing"

	"rescreen/internal/types"
)

func TestNormalizeCleanArray(t *testing.T) {
	raw := `[
		{"rank": 1, "name": "Alice", "score": 88, "strengths": ["Go", "Kubernetes"], "gaps": ["No Rust"], "assessment": "Strong match.", "recommendation": "Highly Recommended"},
		{"rank": 2, "name": "Bob", "score": 35, "strengths": [], "gaps": ["No backend experience"], "assessment": "Weak match.", "recommendation": "Not Recommended"}
	]`

	results, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	want := types.CandidateAssessment{
		Rank:           1,
		Name:           "Alice",
		Score:          88,
		Strengths:      []string{"Go", "Kubernetes"},
		Gaps:           []string{"No Rust"},
		Assessment:     "Strong match.",
		Recommendation: "Highly Recommended",
	}
	if !reflect.DeepEqual(results[0], want) {
		t.Errorf("results[0] = %+v, want %+v", results[0], want)
	}
	if results[1].Rank != 2 || results[1].Score != 35 {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestNormalizeMarkdownFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "json fence",
			raw:  "```json\n[{\"name\": \"Alice\", \"score\": 90}]\n```",
		},
		{
			name: "bare fence",
			raw:  "```\n[{\"name\": \"Alice\", \"score\": 90}]\n```",
		},
		{
			name: "fence with trailing whitespace",
			raw:  "```json\n[{\"name\": \"Alice\", \"score\": 90}]\n```  ",
		},
		{
			name: "opening fence only",
			raw:  "```json\n[{\"name\": \"Alice\", \"score\": 90}]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if len(results) != 1 || results[0].Name != "Alice" || results[0].Score != 90 {
				t.Errorf("results = %+v", results)
			}
		})
	}
}

func TestNormalizeWrapperObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"candidates key", `{"candidates": [{"name": "Alice", "score": 70}]}`},
		{"rankings key", `{"rankings": [{"name": "Alice", "score": 70}]}`},
		{"ranked_list key", `{"ranked_list": [{"name": "Alice", "score": 70}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if len(results) != 1 || results[0].Name != "Alice" {
				t.Errorf("results = %+v", results)
			}
		})
	}
}

func TestNormalizeSingleObject(t *testing.T) {
	raw := `{"name": "Solo", "score": 61, "assessment": "Only one resume."}`

	results, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Name != "Solo" || results[0].Rank != 1 {
		t.Errorf("results[0] = %+v", results[0])
	}
}

func TestNormalizeDefaults(t *testing.T) {
	raw := `[{"name": "Sparse"}]`

	results, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	got := results[0]
	if got.Score != 50 {
		t.Errorf("Score = %d, want 50", got.Score)
	}
	if got.Assessment != "No assessment provided." {
		t.Errorf("Assessment = %q", got.Assessment)
	}
	if got.Recommendation != types.RecommendationConsider {
		t.Errorf("Recommendation = %q", got.Recommendation)
	}
	if got.Strengths == nil || len(got.Strengths) != 0 {
		t.Errorf("Strengths = %#v, want empty non-nil slice", got.Strengths)
	}
	if got.Gaps == nil || len(got.Gaps) != 0 {
		t.Errorf("Gaps = %#v, want empty non-nil slice", got.Gaps)
	}
}

func TestNormalizeScoreCoercion(t *testing.T) {
	tests := []struct {
		name  string
		score string
		want  int
	}{
		{"in range", `72`, 72},
		{"float truncated", `88.9`, 88},
		{"above range clamped", `150`, 100},
		{"below range clamped", `-20`, 0},
		{"numeric string", `"65"`, 65},
		{"numeric string with spaces", `" 65 "`, 65},
		{"non numeric string", `"excellent"`, 50},
		{"null", `null`, 50},
		{"boolean", `true`, 50},
		{"object", `{"value": 80}`, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Normalize(`[{"name": "X", "score": ` + tt.score + `}]`)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if results[0].Score != tt.want {
				t.Errorf("Score = %d, want %d", results[0].Score, tt.want)
			}
		})
	}
}

func TestNormalizeRankReassignment(t *testing.T) {
	// Model-claimed ranks are ignored; position wins.
	raw := `[
		{"rank": 7, "name": "First", "score": 90},
		{"rank": 1, "name": "Second", "score": 80},
		{"rank": 99, "name": "Third", "score": 70}
	]`

	results, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("results[%d].Rank = %d, want %d", i, r.Rank, i+1)
		}
	}
}

func TestNormalizeDropsNonObjectRecords(t *testing.T) {
	raw := `[{"name": "Keep", "score": 80}, "stray string", 42, {"name": "AlsoKeep", "score": 60}]`

	results, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Name != "Keep" || results[1].Name != "AlsoKeep" {
		t.Errorf("results = %+v", results)
	}
	// Ranks stay contiguous after dropping records
	if results[1].Rank != 2 {
		t.Errorf("results[1].Rank = %d, want 2", results[1].Rank)
	}
}

func TestNormalizeMistypedLists(t *testing.T) {
	raw := `[{"name": "X", "score": 50, "strengths": "not a list", "gaps": [1, "real gap", null]}]`

	results, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(results[0].Strengths) != 0 {
		t.Errorf("Strengths = %#v, want empty", results[0].Strengths)
	}
	if !reflect.DeepEqual(results[0].Gaps, []string{"real gap"}) {
		t.Errorf("Gaps = %#v, want [real gap]", results[0].Gaps)
	}
}

func TestNormalizeUnparsable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "I could not rank these candidates."},
		{"empty", ""},
		{"truncated json", `[{"name": "Alice", "sco`},
		{"fence around prose", "```\nnot json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			if !errors.Is(err, ErrUnparsableResponse) {
				t.Errorf("Normalize() error = %v, want ErrUnparsableResponse", err)
			}
		})
	}
}

func TestNormalizeEmptyArray(t *testing.T) {
	results, err := Normalize(`[]`)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
