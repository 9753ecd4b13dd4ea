package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader resolves an input reference to the text of the source material.
type Reader interface {
	Read(inputRef string) (string, error)
}

// NotFoundError reports an input reference that does not resolve.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source material not found: %s", e.Ref)
}

// FileReader reads source material from the local filesystem.
// PDF files are extracted via pdfcpu; everything else is read as plain text.
type FileReader struct{}

// NewFileReader creates a filesystem-backed source reader.
func NewFileReader() *FileReader {
	return &FileReader{}
}

// Read returns the text content of the file at inputRef.
func (r *FileReader) Read(inputRef string) (string, error) {
	info, err := os.Stat(inputRef)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Ref: inputRef}
		}
		return "", fmt.Errorf("stat %s: %w", inputRef, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", inputRef)
	}

	if strings.EqualFold(filepath.Ext(inputRef), ".pdf") {
		return extractPDFText(inputRef)
	}

	data, err := os.ReadFile(inputRef)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", inputRef, err)
	}
	return strings.TrimSpace(string(data)), nil
}
