package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"rescreen/internal/errors"

	"github.com/ledongthuc/pdf"
)

// Format identifies the on-disk encoding of a source document.
type Format string

const (
	FormatText        Format = "text"
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatUnsupported Format = "unsupported"
)

// DetectFormat maps a filename to its document format by extension.
// Unknown extensions are reported as unsupported rather than guessed at.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FormatText
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnsupported
	}
}

// SourceDocument is a raw uploaded or on-disk document prior to text
// extraction.
type SourceDocument struct {
	DisplayName string
	Format      Format
	RawBytes    []byte
}

// ExtractedText is the plain-text rendering of a source document. Body may be
// empty when the document contained no extractable text.
type ExtractedText struct {
	SourceName string
	Body       string
}

// Extractor converts source documents to plain text. Extraction is lossy and
// total: a damaged document produces empty text, never an error, so that one
// bad resume cannot abort a batch.
type Extractor struct {
	logger *errors.Logger
}

// NewExtractor creates an Extractor
func NewExtractor(logger *errors.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract converts a single document to text. The returned body is always
// valid UTF-8.
func (e *Extractor) Extract(doc SourceDocument) ExtractedText {
	var body string
	var err error

	switch doc.Format {
	case FormatText:
		body = string(bytes.ToValidUTF8(doc.RawBytes, []byte("�")))
	case FormatPDF:
		body, err = extractPDF(doc.RawBytes)
	case FormatDOCX:
		body, err = extractDOCX(doc.RawBytes)
	default:
		err = fmt.Errorf("unsupported document format: %s", doc.Format)
	}

	if err != nil && e.logger != nil {
		e.logger.Warn("Text extraction failed, treating document as empty",
			"source", doc.DisplayName,
			"format", string(doc.Format),
			"error", err.Error())
	}

	return ExtractedText{
		SourceName: doc.DisplayName,
		Body:       strings.ToValidUTF8(body, "�"),
	}
}

// extractPDF pulls plain text out of every readable page. Pages that fail to
// decode are skipped. The pdf reader can panic on malformed input, so the
// whole operation runs under a recover.
func extractPDF(raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep what we have
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// docxDocument mirrors the subset of WordprocessingML needed to recover
// paragraph text from word/document.xml.
type docxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []docxText `xml:"t"`
}

type docxText struct {
	Value string `xml:",chardata"`
}

// extractDOCX reads a .docx archive and joins its paragraph text with
// newlines. Whitespace-only paragraphs are dropped.
func extractDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open word/document.xml: %w", err)
	}
	defer rc.Close()

	var doc docxDocument
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return "", fmt.Errorf("failed to parse word/document.xml: %w", err)
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t.Value)
			}
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// ExtractAll runs extraction over a batch of documents, preserving order.
func (e *Extractor) ExtractAll(docs []SourceDocument) []ExtractedText {
	results := make([]ExtractedText, 0, len(docs))
	for _, doc := range docs {
		results = append(results, e.Extract(doc))
	}
	return results
}
