package screening

import (
	"strings"
	"testing"

	"rescreen/internal/types"
)

func TestBuildPrompt(t *testing.T) {
	req := types.EvaluationRequest{
		JobText: "Senior Go engineer, 5+ years, Kubernetes experience.",
		Candidates: []types.CandidateInput{
			{Name: "Alice Johnson", Text: "10 years Go, built schedulers on Kubernetes."},
			{Name: "Bob Lee", Text: "Frontend developer, React and TypeScript."},
		},
	}

	prompt := BuildPrompt(req)

	if !strings.Contains(prompt, "JOB DESCRIPTION:\nSenior Go engineer") {
		t.Error("prompt is missing the job description section")
	}
	if !strings.Contains(prompt, "--- CANDIDATE 1: Alice Johnson ---") {
		t.Error("prompt is missing the first candidate block")
	}
	if !strings.Contains(prompt, "--- CANDIDATE 2: Bob Lee ---") {
		t.Error("prompt is missing the second candidate block")
	}
	if strings.Index(prompt, "Alice Johnson") > strings.Index(prompt, "Bob Lee") {
		t.Error("candidate blocks are out of request order")
	}
	if !strings.Contains(prompt, `"Highly Recommended", "Recommended", "Consider", "Not Recommended"`) {
		t.Error("prompt is missing the recommendation label list")
	}
	if strings.Contains(prompt, "SPECIAL RECRUITER INSTRUCTIONS") {
		t.Error("prompt has an instructions section without instructions")
	}
}

func TestBuildPromptWithInstructions(t *testing.T) {
	req := types.EvaluationRequest{
		JobText:      "Platform engineer.",
		Candidates:   []types.CandidateInput{{Name: "Carol", Text: "SRE background."}},
		Instructions: "Prefer candidates with on-call experience.",
	}

	prompt := BuildPrompt(req)

	if !strings.Contains(prompt, "SPECIAL RECRUITER INSTRUCTIONS:\nPrefer candidates with on-call experience.") {
		t.Error("prompt is missing the recruiter instructions")
	}
	if !strings.Contains(prompt, "Please factor these instructions heavily into your ranking.") {
		t.Error("prompt is missing the instructions emphasis line")
	}
}

func TestBuildPromptTruncation(t *testing.T) {
	longJob := strings.Repeat("j", jobTextBudget+500)
	longResume := strings.Repeat("r", candidateTextBudget+500)

	req := types.EvaluationRequest{
		JobText:    longJob,
		Candidates: []types.CandidateInput{{Name: "Dan", Text: longResume}},
	}

	prompt := BuildPrompt(req)

	if strings.Contains(prompt, strings.Repeat("j", jobTextBudget+1)) {
		t.Error("job text was not truncated to its budget")
	}
	if !strings.Contains(prompt, strings.Repeat("j", jobTextBudget)) {
		t.Error("job text was truncated below its budget")
	}
	if strings.Contains(prompt, strings.Repeat("r", candidateTextBudget+1)) {
		t.Error("candidate text was not truncated to its budget")
	}
	if !strings.Contains(prompt, strings.Repeat("r", candidateTextBudget)) {
		t.Error("candidate text was truncated below its budget")
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	req := types.EvaluationRequest{
		JobText: "Data engineer.",
		Candidates: []types.CandidateInput{
			{Name: "Eve", Text: "Spark pipelines."},
			{Name: "Frank", Text: "Airflow DAGs."},
		},
		Instructions: "Weight cloud experience.",
	}

	if BuildPrompt(req) != BuildPrompt(req) {
		t.Error("identical requests produced different prompts")
	}
}
