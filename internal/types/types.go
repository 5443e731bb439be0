package types

// CandidateInput represents one resume submitted for screening. Name is derived
// from the uploaded filename, Text is the extracted resume content. Both are
// guaranteed non-empty by the caller; candidates whose extraction produced no
// text are filtered out before they reach the screening pipeline.
type CandidateInput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// EvaluationRequest represents a single screening request: one job description
// evaluated against one or more candidates, with optional recruiter
// instructions. Candidate order is submission order and carries no ranking
// significance.
type EvaluationRequest struct {
	JobText      string
	Candidates   []CandidateInput
	Instructions string
}

// Recommendation labels the model is instructed to choose from. The normalizer
// defaults to RecommendationConsider when the field is absent but does not
// reject values outside this set.
const (
	RecommendationHighly      = "Highly Recommended"
	RecommendationRecommended = "Recommended"
	RecommendationConsider    = "Consider"
	RecommendationNot         = "Not Recommended"
)

// CandidateAssessment is the validated per-candidate record produced by a
// screening run. Ranks form a contiguous 1..N sequence in array order.
type CandidateAssessment struct {
	Rank           int      `json:"rank"`
	Name           string   `json:"name"`
	Score          int      `json:"score"`
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Assessment     string   `json:"assessment"`
	Recommendation string   `json:"recommendation"`
}

// ScreenOutput is the response envelope returned by the HTTP screening
// endpoint.
type ScreenOutput struct {
	Success         bool                  `json:"success"`
	Results         []CandidateAssessment `json:"results"`
	TotalCandidates int                   `json:"total_candidates"`
}
