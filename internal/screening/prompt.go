package screening

import (
	"fmt"
	"strings"

	"rescreen/internal/types"
)

// Character budgets keep the assembled prompt inside the model's context
// window. Text beyond the budget is cut, not summarized.
const (
	jobTextBudget       = 4000
	candidateTextBudget = 3000
)

// truncate returns at most limit bytes of s.
func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// BuildPrompt assembles the ranking prompt for a screening request. The
// output is deterministic for a given request: candidate blocks appear in
// request order, numbered from 1.
func BuildPrompt(req types.EvaluationRequest) string {
	summaries := make([]string, 0, len(req.Candidates))
	for i, candidate := range req.Candidates {
		summaries = append(summaries, fmt.Sprintf("--- CANDIDATE %d: %s ---\n%s",
			i+1, candidate.Name, truncate(candidate.Text, candidateTextBudget)))
	}
	resumesText := strings.Join(summaries, "\n\n")

	specialSection := ""
	if req.Instructions != "" {
		specialSection = fmt.Sprintf(`
SPECIAL RECRUITER INSTRUCTIONS:
%s

Please factor these instructions heavily into your ranking.
`, req.Instructions)
	}

	return fmt.Sprintf(`You are an expert technical recruiter and talent acquisition specialist.
Your task is to analyze the following resumes against a job description and rank the candidates
in order of their suitability for the role.

JOB DESCRIPTION:
%s

%s

CANDIDATE RESUMES:
%s

Please analyze each candidate thoroughly and provide a ranked list. For each candidate, provide:
1. A match score from 0-100 (100 being a perfect match)
2. Key strengths that align with the job requirements
3. Notable gaps or concerns
4. A brief overall assessment (2-3 sentences)

Return your response as a valid JSON array (and ONLY the JSON array, no other text) in this exact format:
[
  {
    "rank": 1,
    "name": "Candidate Name",
    "score": 92,
    "strengths": ["strength 1", "strength 2", "strength 3"],
    "gaps": ["gap 1", "gap 2"],
    "assessment": "Brief overall assessment of the candidate.",
    "recommendation": "Highly Recommended"
  }
]

The "recommendation" field should be one of: "Highly Recommended", "Recommended", "Consider", "Not Recommended"

Rank them from highest to lowest score. Be objective, fair, and thorough in your analysis.
Only return the JSON array, nothing else.`,
		truncate(req.JobText, jobTextBudget), specialSection, resumesText)
}
