// Document and image extraction helpers.
//
// Information Hiding:
// - PDF parsing library hidden behind ExtractPDFText
// - Media-type derivation from file extensions

package multimodal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// imageMediaTypes maps recognized image extensions to their media types.
var imageMediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IsImage reports whether the path has a recognized image extension.
func IsImage(path string) bool {
	_, ok := imageMediaTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// MediaType returns the media type for an image path, defaulting to
// image/jpeg for unrecognized image extensions.
func MediaType(path string) string {
	if mt, ok := imageMediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "image/jpeg"
}

// IsPDF reports whether the path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

// ExtractPDFText extracts the concatenated page text of a PDF.
func ExtractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "[No text could be extracted from PDF.]", nil
	}
	return text, nil
}

// ReadTextFile reads a file as text, replacing undecodable bytes.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
