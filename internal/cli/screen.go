package cli

import (
	"fmt"
	"strings"

	"rescreen/internal/ai"
	"rescreen/internal/common"
	rescreenErrors "rescreen/internal/errors"
	"rescreen/internal/extract"
	"rescreen/internal/screening"
	"rescreen/internal/types"
	"rescreen/internal/utils"

	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen [job-description-file] [resume-file]...",
	Short: "Screen resumes against a job description",
	Long: `Screen one or more candidate resumes against a job description using AI.
The first argument is the job description file; every following argument is a
resume. PDF, DOCX, and TXT files are supported. Candidates are ranked from
highest to lowest score.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if screenConfig.OutputFormat == "" {
			screenConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(screenConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScreen,
}

var screenConfig common.CommandConfig
var screenInstructions string

func init() {
	screenCmd.Flags().StringVarP(&screenConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	screenCmd.Flags().StringVar(&screenConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	screenCmd.Flags().StringVarP(&screenInstructions, "instructions", "i", "", "Special recruiter instructions for the screening")

	// Add completion for format flag
	_ = screenCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	req, err := buildScreenRequest(args, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting candidate screening",
		"candidate_count", len(req.Candidates),
		"job_chars", len(req.JobText),
		"output_format", screenConfig.OutputFormat)

	aiService, err := ai.NewService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.Debug("Failed to close AI service", "error", err)
		}
	}()

	screener := screening.NewScreener(aiService.Client, logger)
	results, tokenUsage, err := screener.Rank(cmd.Context(), *req)
	if err != nil {
		return fmt.Errorf("failed to screen candidates: %w", err)
	}

	if tokenUsage != nil {
		logger.Debug("Token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	output := types.ScreenOutput{
		Success:         true,
		Results:         results,
		TotalCandidates: len(req.Candidates),
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(output, screenConfig); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("Candidate screening completed successfully")
	return nil
}

// buildScreenRequest reads and extracts the job description and resume files.
// Resumes whose extraction produced no text are skipped with a warning.
func buildScreenRequest(args []string, logger *rescreenErrors.Logger) (*types.EvaluationRequest, error) {
	fileProcessor := common.NewFileProcessor(logger)
	extractor := extract.NewExtractor(logger)

	jobPath, resumePaths := args[0], args[1:]

	jobRaw, err := fileProcessor.ValidateAndReadFile(jobPath)
	if err != nil {
		return nil, err
	}
	jobDoc := extractor.Extract(extract.SourceDocument{
		DisplayName: jobPath,
		Format:      extract.DetectFormat(jobPath),
		RawBytes:    jobRaw,
	})
	if strings.TrimSpace(jobDoc.Body) == "" {
		return nil, fmt.Errorf("could not extract text from job description file %s", jobPath)
	}

	var candidates []types.CandidateInput
	for _, path := range resumePaths {
		format := extract.DetectFormat(path)
		if format == extract.FormatUnsupported {
			logger.Warn("Skipping unsupported file", "filename", path)
			continue
		}

		raw, err := fileProcessor.ValidateAndReadFile(path)
		if err != nil {
			return nil, err
		}

		doc := extractor.Extract(extract.SourceDocument{
			DisplayName: path,
			Format:      format,
			RawBytes:    raw,
		})
		if strings.TrimSpace(doc.Body) == "" {
			logger.Warn("Skipping resume with no extractable text", "filename", path)
			continue
		}

		candidates = append(candidates, types.CandidateInput{
			Name: utils.CandidateName(path),
			Text: doc.Body,
		})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no valid resumes could be processed")
	}

	return &types.EvaluationRequest{
		JobText:      jobDoc.Body,
		Candidates:   candidates,
		Instructions: strings.TrimSpace(screenInstructions),
	}, nil
}
