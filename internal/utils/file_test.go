package utils

import "testing"

func TestCandidateName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"jane_doe.pdf", "Jane Doe"},
		{"john-smith-resume.docx", "John Smith Resume"},
		{"ALICE_JOHNSON.TXT", "Alice Johnson"},
		{"resume.pdf", "Resume"},
		{"bob.lee.pdf", "Bob.lee"},
		{"/tmp/uploads/carol_white.txt", "Carol White"},
		{"no_extension", "No Extension"},
		{"double__underscore.pdf", "Double Underscore"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := CandidateName(tt.filename); got != tt.want {
				t.Errorf("CandidateName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"resume.PDF", ".pdf"},
		{"resume.docx", ".docx"},
		{"resume", ""},
	}

	for _, tt := range tests {
		if got := GetFileExtension(tt.filename); got != tt.want {
			t.Errorf("GetFileExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{16 * 1024 * 1024, "16.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
