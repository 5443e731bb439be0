package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"rescreen/internal/ai"
	"rescreen/internal/extract"
	"rescreen/internal/observability"
	"rescreen/internal/screening"
	"rescreen/internal/types"
	"rescreen/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// createScreenHandler wraps the screening handler with observability. The
// endpoint accepts a multipart form with a "job_description" file, one or
// more "resumes" files, and an optional "special_instructions" field.
func (s *Server) createScreenHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("rescreen.api")
		ctx, span := tracer.Start(ctx, "api.screen")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, status, err := s.parseScreenRequest(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, err.Error(), "", status)
			return
		}

		span.SetAttributes(
			attribute.Int("request.candidate_count", len(req.Candidates)),
			attribute.Int("request.job_length", len(req.JobText)),
			attribute.Bool("request.has_instructions", req.Instructions != ""),
		)

		ranker, cleanup, err := s.resolveRanker()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}
		defer cleanup()

		metrics := om.GetMetrics()
		var results []types.CandidateAssessment
		err = metrics.TrackScreening(ctx, func(ctx context.Context) *observability.ScreeningResult {
			ranked, tokenUsage, rankErr := ranker.Rank(ctx, *req)
			results = ranked

			sr := &observability.ScreeningResult{
				Error:          rankErr,
				CandidateCount: len(req.Candidates),
			}
			if tokenUsage != nil {
				sr.InputTokens = tokenUsage.InputTokens
				sr.OutputTokens = tokenUsage.OutputTokens
				sr.TotalTokens = tokenUsage.TotalTokens
			}
			if rankErr == nil {
				sr.ParseFailed = screening.ParseFailed(ranked)
			}
			return sr
		})

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			writeErrorResponse(w, fmt.Sprintf("An error occurred during screening: %v", err), "", http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.result_count", len(results)),
		)

		response := types.ScreenOutput{
			Success:         true,
			Results:         results,
			TotalCandidates: len(req.Candidates),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// resolveRanker returns the injected Ranker when one is set, otherwise builds
// a screener backed by a fresh AI service. The cleanup func releases the
// backend client.
func (s *Server) resolveRanker() (Ranker, func(), error) {
	if s.Ranker != nil {
		return s.Ranker, func() {}, nil
	}

	aiService, err := ai.NewService(s.AppConfig, s.Logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := aiService.Close(); err != nil {
			s.Logger.Debug("Failed to close AI service", "error", err)
		}
	}
	return screening.NewScreener(aiService.Client, s.Logger), cleanup, nil
}

// parseScreenRequest extracts and validates the multipart screening request.
// It returns a descriptive error and HTTP status on failure.
func (s *Server) parseScreenRequest(r *http.Request) (*types.EvaluationRequest, int, error) {
	// Multipart parts beyond this threshold spill to disk; the overall body
	// size is already bounded by MaxBytesReader.
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}

	jobText, status, err := s.readJobDescription(r)
	if err != nil {
		return nil, status, err
	}

	candidates, status, err := s.readResumes(r)
	if err != nil {
		return nil, status, err
	}

	instructions := strings.TrimSpace(r.FormValue("special_instructions"))

	return &types.EvaluationRequest{
		JobText:      jobText,
		Candidates:   candidates,
		Instructions: instructions,
	}, 0, nil
}

// readJobDescription extracts text from the uploaded job description file
func (s *Server) readJobDescription(r *http.Request) (string, int, error) {
	file, header, err := r.FormFile("job_description")
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("Please upload a Job Description file.")
	}
	defer closeUpload(file, s)

	if extract.DetectFormat(header.Filename) == extract.FormatUnsupported {
		return "", http.StatusBadRequest, fmt.Errorf("Job Description must be a PDF, DOCX, or TXT file.")
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("failed to read job description upload: %w", err)
	}

	extracted := s.Extractor.Extract(extract.SourceDocument{
		DisplayName: header.Filename,
		Format:      extract.DetectFormat(header.Filename),
		RawBytes:    raw,
	})
	if strings.TrimSpace(extracted.Body) == "" {
		return "", http.StatusBadRequest, fmt.Errorf("Could not extract text from the Job Description file.")
	}

	return extracted.Body, 0, nil
}

// readResumes extracts candidates from the uploaded resume files. Unsupported
// files are skipped with a warning; files whose extraction produced no text
// are dropped.
func (s *Server) readResumes(r *http.Request) ([]types.CandidateInput, int, error) {
	form := r.MultipartForm
	if form == nil || len(form.File["resumes"]) == 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("Please upload at least one resume.")
	}

	var candidates []types.CandidateInput
	for _, header := range form.File["resumes"] {
		if header.Filename == "" {
			continue
		}

		format := extract.DetectFormat(header.Filename)
		if format == extract.FormatUnsupported {
			s.Logger.Warn("Skipping unsupported file", "filename", header.Filename)
			continue
		}

		file, err := header.Open()
		if err != nil {
			s.Logger.Warn("Skipping unreadable upload", "filename", header.Filename, "error", err)
			continue
		}

		raw, err := io.ReadAll(file)
		closeUpload(file, s)
		if err != nil {
			s.Logger.Warn("Skipping unreadable upload", "filename", header.Filename, "error", err)
			continue
		}

		extracted := s.Extractor.Extract(extract.SourceDocument{
			DisplayName: header.Filename,
			Format:      format,
			RawBytes:    raw,
		})
		if strings.TrimSpace(extracted.Body) == "" {
			continue
		}

		candidates = append(candidates, types.CandidateInput{
			Name: utils.CandidateName(header.Filename),
			Text: extracted.Body,
		})
	}

	if len(candidates) == 0 {
		return nil, http.StatusBadRequest,
			fmt.Errorf("No valid resumes could be processed. Please upload PDF, DOCX, or TXT files.")
	}

	return candidates, 0, nil
}

func closeUpload(f multipart.File, s *Server) {
	if err := f.Close(); err != nil {
		s.Logger.Debug("Failed to close upload", "error", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
