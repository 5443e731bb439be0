package screening

import (
	"context"
	"errors"

	"rescreen/internal/ai"
	rescreenErrors "rescreen/internal/errors"
	"rescreen/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// failedParseAssessment is returned for every candidate when the model
// response cannot be repaired into JSON.
const failedParseAssessment = "AI analysis failed to format as JSON. Please try again."

// Screener orchestrates a ranking run: build the prompt, call the model,
// normalize the response.
type Screener struct {
	client ai.CompletionClient
	logger *rescreenErrors.Logger
}

// NewScreener creates a Screener
func NewScreener(client ai.CompletionClient, logger *rescreenErrors.Logger) *Screener {
	return &Screener{
		client: client,
		logger: logger,
	}
}

// Rank screens the request's candidates against its job description and
// returns them ranked. An unparsable model response degrades to a placeholder
// list covering every candidate; upstream failures propagate as errors.
func (s *Screener) Rank(ctx context.Context, req types.EvaluationRequest) ([]types.CandidateAssessment, *ai.TokenUsage, error) {
	tracer := otel.Tracer("rescreen.screening")
	ctx, span := tracer.Start(ctx, "screening.rank")
	defer span.End()

	span.SetAttributes(
		attribute.Int("screening.candidate_count", len(req.Candidates)),
		attribute.Int("screening.job_length", len(req.JobText)),
		attribute.Bool("screening.has_instructions", req.Instructions != ""),
	)

	if req.JobText == "" {
		return nil, nil, rescreenErrors.NewValidationError(rescreenErrors.ErrCodeInvalidRequest,
			"Job description text is required", nil)
	}
	if len(req.Candidates) == 0 {
		return nil, nil, rescreenErrors.NewValidationError(rescreenErrors.ErrCodeInvalidRequest,
			"At least one candidate is required", nil)
	}

	prompt := BuildPrompt(req)

	rawText, tokenUsage, err := s.client.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	results, err := Normalize(rawText)
	if err != nil {
		if !errors.Is(err, ErrUnparsableResponse) {
			span.RecordError(err)
			return nil, tokenUsage, err
		}

		s.logger.Warn("Model response was not parsable JSON, returning placeholder results",
			"candidate_count", len(req.Candidates),
			"response_length", len(rawText))
		span.SetAttributes(attribute.Bool("screening.parse_failed", true))

		return placeholderResults(req.Candidates), tokenUsage, nil
	}

	span.SetAttributes(attribute.Int("screening.result_count", len(results)))
	return results, tokenUsage, nil
}

// ParseFailed reports whether results are the placeholder set produced when
// the model response could not be repaired into JSON.
func ParseFailed(results []types.CandidateAssessment) bool {
	return len(results) > 0 && results[0].Assessment == failedParseAssessment
}

// placeholderResults covers every requested candidate with a zero-score
// record so the caller still gets one row per resume.
func placeholderResults(candidates []types.CandidateInput) []types.CandidateAssessment {
	results := make([]types.CandidateAssessment, 0, len(candidates))
	for i, candidate := range candidates {
		results = append(results, types.CandidateAssessment{
			Rank:           i + 1,
			Name:           candidate.Name,
			Score:          0,
			Strengths:      []string{},
			Gaps:           []string{},
			Assessment:     failedParseAssessment,
			Recommendation: types.RecommendationConsider,
		})
	}
	return results
}
