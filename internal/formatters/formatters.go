package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"rescreen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry is the default registry used by output handling
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScreenOutput", &ScreeningTextFormatter{})
	registry.RegisterFormatter("markdown", "ScreenOutput", &ScreeningMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScreenOutput:
		return "ScreenOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ScreeningTextFormatter handles text formatting for screening results
type ScreeningTextFormatter struct{}

func (stf *ScreeningTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScreenOutput)
	if !ok {
		return "", fmt.Errorf("expected ScreenOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE RANKING ===\n")
	output.WriteString(fmt.Sprintf("Candidates screened: %d\n\n", result.TotalCandidates))

	for _, c := range result.Results {
		output.WriteString(fmt.Sprintf("#%d %s\n", c.Rank, c.Name))
		output.WriteString(fmt.Sprintf("Score: %d/100\n", c.Score))
		output.WriteString(fmt.Sprintf("Recommendation: %s\n", c.Recommendation))

		if len(c.Strengths) > 0 {
			output.WriteString("Strengths:\n")
			for _, s := range c.Strengths {
				output.WriteString(fmt.Sprintf("  - %s\n", s))
			}
		}
		if len(c.Gaps) > 0 {
			output.WriteString("Gaps:\n")
			for _, g := range c.Gaps {
				output.WriteString(fmt.Sprintf("  - %s\n", g))
			}
		}

		output.WriteString("Assessment:\n")
		output.WriteString(c.Assessment)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (stf *ScreeningTextFormatter) SupportedType() string {
	return "ScreenOutput"
}

// ScreeningMarkdownFormatter handles markdown formatting for screening results
type ScreeningMarkdownFormatter struct{}

func (smf *ScreeningMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScreenOutput)
	if !ok {
		return "", fmt.Errorf("expected ScreenOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Candidate Ranking\n\n")
	output.WriteString(fmt.Sprintf("**Candidates screened:** %d\n\n", result.TotalCandidates))

	output.WriteString("| Rank | Name | Score | Recommendation |\n")
	output.WriteString("|------|------|-------|----------------|\n")
	for _, c := range result.Results {
		output.WriteString(fmt.Sprintf("| %d | %s | %d | %s |\n",
			c.Rank, c.Name, c.Score, c.Recommendation))
	}
	output.WriteString("\n")

	for _, c := range result.Results {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", c.Rank, c.Name))
		output.WriteString(fmt.Sprintf("**Score:** %d/100  \n", c.Score))
		output.WriteString(fmt.Sprintf("**Recommendation:** %s\n\n", c.Recommendation))

		if len(c.Strengths) > 0 {
			output.WriteString("**Strengths:**\n\n")
			for _, s := range c.Strengths {
				output.WriteString(fmt.Sprintf("- %s\n", s))
			}
			output.WriteString("\n")
		}
		if len(c.Gaps) > 0 {
			output.WriteString("**Gaps:**\n\n")
			for _, g := range c.Gaps {
				output.WriteString(fmt.Sprintf("- %s\n", g))
			}
			output.WriteString("\n")
		}

		output.WriteString(c.Assessment)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (smf *ScreeningMarkdownFormatter) SupportedType() string {
	return "ScreenOutput"
}
