package transporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	ContentTypeZip = "application/zip"
	ContentTypePDF = "application/pdf"
)

var fileExtensions = map[string]string{
	ContentTypeZip: ".zip",
	ContentTypePDF: ".pdf",
}

// File owns the bytes of a downloaded or generated artifact.
type File struct {
	content     []byte
	contentType string
}

// NewFile wraps content already known to be of contentType.
func NewFile(content []byte, contentType string) *File {
	return &File{content: content, contentType: contentType}
}

// Content returns the raw file bytes.
func (f *File) Content() []byte { return f.content }

func (f *File) ContentType() string { return f.contentType }

func (f *File) Size() int { return len(f.content) }

// Extension returns ".zip" or ".pdf" based on the validated content type.
func (f *File) Extension() string { return fileExtensions[f.contentType] }

// WriteTo implements io.WriterTo.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(f.content).WriteTo(w)
}

// Save writes the file to path, creating parent directories as needed.
func (f *File) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create file directory: %w", err)
		}
	}
	if err := os.WriteFile(path, f.content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
