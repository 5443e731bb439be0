package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}

	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"resume.pdf", FormatPDF},
		{"resume.PDF", FormatPDF},
		{"resume.docx", FormatDOCX},
		{"resume.txt", FormatText},
		{"resume.doc", FormatUnsupported},
		{"resume.png", FormatUnsupported},
		{"resume", FormatUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor(nil)

	t.Run("passes text through", func(t *testing.T) {
		got := e.Extract(SourceDocument{
			DisplayName: "resume.txt",
			Format:      FormatText,
			RawBytes:    []byte("Jane Doe\nSoftware Engineer"),
		})
		if got.Body != "Jane Doe\nSoftware Engineer" {
			t.Errorf("Body = %q", got.Body)
		}
		if got.SourceName != "resume.txt" {
			t.Errorf("SourceName = %q", got.SourceName)
		}
	})

	t.Run("zero byte file yields empty body", func(t *testing.T) {
		got := e.Extract(SourceDocument{DisplayName: "empty.txt", Format: FormatText})
		if got.Body != "" {
			t.Errorf("Body = %q, want empty", got.Body)
		}
	})

	t.Run("invalid utf8 is replaced not dropped", func(t *testing.T) {
		got := e.Extract(SourceDocument{
			DisplayName: "latin1.txt",
			Format:      FormatText,
			RawBytes:    []byte{'c', 'a', 'f', 0xe9},
		})
		if !utf8.ValidString(got.Body) {
			t.Errorf("Body is not valid UTF-8: %q", got.Body)
		}
		if !strings.HasPrefix(got.Body, "caf") {
			t.Errorf("Body = %q, want caf prefix", got.Body)
		}
	})
}

func TestExtractPDF(t *testing.T) {
	e := NewExtractor(nil)

	t.Run("corrupt pdf yields empty body without panic", func(t *testing.T) {
		got := e.Extract(SourceDocument{
			DisplayName: "broken.pdf",
			Format:      FormatPDF,
			RawBytes:    []byte("%PDF-1.4 this is not a real pdf"),
		})
		if got.Body != "" {
			t.Errorf("Body = %q, want empty", got.Body)
		}
	})

	t.Run("empty bytes yield empty body", func(t *testing.T) {
		got := e.Extract(SourceDocument{DisplayName: "empty.pdf", Format: FormatPDF})
		if got.Body != "" {
			t.Errorf("Body = %q, want empty", got.Body)
		}
	})
}

func TestExtractDOCX(t *testing.T) {
	e := NewExtractor(nil)

	t.Run("extracts paragraph text", func(t *testing.T) {
		raw := buildDOCX(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>John Smith</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior </w:t></w:r><w:r><w:t>Backend Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`)

		got := e.Extract(SourceDocument{
			DisplayName: "resume.docx",
			Format:      FormatDOCX,
			RawBytes:    raw,
		})
		want := "John Smith\nSenior Backend Engineer"
		if got.Body != want {
			t.Errorf("Body = %q, want %q", got.Body, want)
		}
	})

	t.Run("whitespace only paragraphs dropped", func(t *testing.T) {
		raw := buildDOCX(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`)

		got := e.Extract(SourceDocument{
			DisplayName: "blank.docx",
			Format:      FormatDOCX,
			RawBytes:    raw,
		})
		if got.Body != "" {
			t.Errorf("Body = %q, want empty", got.Body)
		}
	})

	t.Run("not a zip yields empty body", func(t *testing.T) {
		got := e.Extract(SourceDocument{
			DisplayName: "fake.docx",
			Format:      FormatDOCX,
			RawBytes:    []byte("plain text pretending to be docx"),
		})
		if got.Body != "" {
			t.Errorf("Body = %q, want empty", got.Body)
		}
	})

	t.Run("missing document xml yields empty body", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/styles.xml")
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write([]byte("<styles/>")); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("failed to close zip writer: %v", err)
		}

		got := e.Extract(SourceDocument{
			DisplayName: "nodoc.docx",
			Format:      FormatDOCX,
			RawBytes:    buf.Bytes(),
		})
		if got.Body != "" {
			t.Errorf("Body = %q, want empty", got.Body)
		}
	})
}

func TestExtractUnsupported(t *testing.T) {
	e := NewExtractor(nil)
	got := e.Extract(SourceDocument{
		DisplayName: "resume.doc",
		Format:      FormatUnsupported,
		RawBytes:    []byte("legacy word binary"),
	})
	if got.Body != "" {
		t.Errorf("Body = %q, want empty", got.Body)
	}
}

func TestExtractAllPreservesOrder(t *testing.T) {
	e := NewExtractor(nil)
	docs := []SourceDocument{
		{DisplayName: "a.txt", Format: FormatText, RawBytes: []byte("alpha")},
		{DisplayName: "b.txt", Format: FormatText, RawBytes: []byte("beta")},
		{DisplayName: "c.pdf", Format: FormatPDF, RawBytes: []byte("junk")},
	}

	results := e.ExtractAll(docs)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Body != "alpha" || results[1].Body != "beta" {
		t.Errorf("unexpected bodies: %q, %q", results[0].Body, results[1].Body)
	}
	if results[2].SourceName != "c.pdf" {
		t.Errorf("SourceName = %q, want c.pdf", results[2].SourceName)
	}
}
