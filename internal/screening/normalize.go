package screening

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"rescreen/internal/types"
)

// ErrUnparsableResponse reports that the model output could not be repaired
// into a candidate list. Callers substitute a placeholder result rather than
// failing the batch.
var ErrUnparsableResponse = errors.New("model response is not parsable JSON")

// wrapperKeys are object keys a model sometimes nests the ranked array under
// despite being asked for a bare array.
var wrapperKeys = []string{"candidates", "rankings", "ranked_list"}

const (
	defaultAssessment = "No assessment provided."
	defaultScore      = 50
)

// stripFence removes a surrounding markdown code fence if present. Only the
// first line and a trailing fence line are dropped; inner content is kept
// verbatim.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Normalize repairs a raw model response into an ordered candidate list.
// It tolerates markdown fences, a wrapper object around the array, a single
// object in place of a one-element array, missing fields, and out-of-range or
// mistyped scores. Records that are not JSON objects are dropped. Ranks are
// reassigned sequentially from 1 regardless of what the model claimed.
func Normalize(raw string) ([]types.CandidateAssessment, error) {
	text := stripFence(raw)

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, ErrUnparsableResponse
	}

	records := extractRecords(decoded)

	results := make([]types.CandidateAssessment, 0, len(records))
	for _, record := range records {
		obj, ok := record.(map[string]any)
		if !ok {
			continue
		}
		results = append(results, repairRecord(obj, len(results)+1))
	}

	return results, nil
}

// extractRecords locates the candidate array inside the decoded value. A
// wrapper object is unwrapped through the first known key holding an array; a
// bare object becomes a one-element list.
func extractRecords(decoded any) []any {
	switch v := decoded.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range wrapperKeys {
			if inner, ok := v[key].([]any); ok {
				return inner
			}
		}
		return []any{v}
	default:
		return nil
	}
}

// repairRecord fills defaults and coerces field types for a single candidate
// record.
func repairRecord(obj map[string]any, rank int) types.CandidateAssessment {
	result := types.CandidateAssessment{
		Rank:           rank,
		Name:           stringField(obj, "name"),
		Score:          coerceScore(obj["score"]),
		Strengths:      stringListField(obj, "strengths"),
		Gaps:           stringListField(obj, "gaps"),
		Assessment:     stringField(obj, "assessment"),
		Recommendation: stringField(obj, "recommendation"),
	}

	if result.Assessment == "" {
		result.Assessment = defaultAssessment
	}
	if result.Recommendation == "" {
		result.Recommendation = types.RecommendationConsider
	}

	return result
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// stringListField reads a list of strings, skipping entries of other types.
// Absent or mistyped fields yield an empty list, never nil, so JSON encoding
// produces [] instead of null.
func stringListField(obj map[string]any, key string) []string {
	result := []string{}
	items, ok := obj[key].([]any)
	if !ok {
		return result
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// coerceScore turns whatever the model put in the score field into an integer
// clamped to [0, 100]. Anything unusable becomes the neutral default.
func coerceScore(value any) int {
	var score int
	switch v := value.(type) {
	case nil:
		return defaultScore
	case float64:
		score = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return defaultScore
		}
		score = parsed
	default:
		return defaultScore
	}

	return max(0, min(100, score))
}
