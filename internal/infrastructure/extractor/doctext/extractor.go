// Package doctext extracts plain text from uploaded documents. Text-bearing
// formats are decoded in process; image formats delegate to the external
// OCR capability behind the ImageTextReader port.
package doctext

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/nyayalens/nyayalens/internal/core/domain"
	"github.com/nyayalens/nyayalens/internal/core/ports"
)

type format string

const (
	formatTXT  format = "txt"
	formatPDF  format = "pdf"
	formatDOCX format = "docx"
	formatPNG  format = "png"
	formatJPG  format = "jpg"
)

// formats maps declared content types (MIME or bare extension) onto the
// fixed allow-list. Anything outside it is an unsupported format.
var formats = map[string]format{
	"text/plain":      formatTXT,
	"txt":             formatTXT,
	".txt":            formatTXT,
	"application/pdf": formatPDF,
	"pdf":             formatPDF,
	".pdf":            formatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": formatDOCX,
	"docx":       formatDOCX,
	".docx":      formatDOCX,
	"image/png":  formatPNG,
	"png":        formatPNG,
	".png":       formatPNG,
	"image/jpeg": formatJPG,
	"jpg":        formatJPG,
	".jpg":       formatJPG,
	"jpeg":       formatJPG,
	".jpeg":      formatJPG,
}

type Extractor struct {
	images ports.ImageTextReader
}

func NewExtractor(images ports.ImageTextReader) *Extractor {
	return &Extractor{images: images}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	f, ok := formats[normalizeType(mimeType)]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract",
			fmt.Errorf("content type %q", mimeType))
	}

	var (
		text string
		err  error
	)
	switch f {
	case formatTXT:
		text, err = extractTXT(data)
	case formatPDF:
		text, err = extractPDF(data)
	case formatDOCX:
		text, err = extractDOCX(data)
	case formatPNG:
		text, err = e.extractImage(ctx, data, "image/png")
	case formatJPG:
		text, err = e.extractImage(ctx, data, "image/jpeg")
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract",
			fmt.Errorf("no text in %s document", f))
	}
	return text, nil
}

func normalizeType(mimeType string) string {
	t := strings.ToLower(strings.TrimSpace(mimeType))
	if base, _, found := strings.Cut(t, ";"); found {
		t = strings.TrimSpace(base)
	}
	return t
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.WrapError(domain.ErrExtractionFailed, "decode txt",
			errors.New("not valid utf-8"))
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open pdf", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open docx", err)
	}

	for _, f := range reader.File {
		if path.Base(f.Name) != "document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", domain.WrapError(domain.ErrExtractionFailed, "open docx body", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.WrapError(domain.ErrExtractionFailed, "read docx body", err)
		}
		return stripXMLTags(string(content)), nil
	}
	return "", domain.WrapError(domain.ErrExtractionFailed, "open docx",
		errors.New("document.xml not found"))
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	text, err := e.images.ReadImageText(ctx, data, mimeType)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "ocr image", err)
	}
	return text, nil
}

func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
