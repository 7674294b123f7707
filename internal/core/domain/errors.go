package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat      = errors.New("unsupported document format")
	ErrUnsupportedLanguage    = errors.New("unsupported output language")
	ErrExtractionFailed       = errors.New("text extraction failed")
	ErrModelUnavailable       = errors.New("generative model unavailable")
	ErrMalformedModelResponse = errors.New("malformed model response")
	ErrArtifactNotFound       = errors.New("artifact not found")
	ErrInvalidInput           = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
