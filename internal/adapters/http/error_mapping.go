package httpadapter

import (
	"net/http"

	"github.com/nyayalens/nyayalens/internal/core/domain"
)

// mapErrorToHTTPStatus translates error kinds to status codes. Extraction
// is checked before model availability: an OCR outage during image
// extraction is an extraction failure to the caller.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat),
		domain.IsKind(err, domain.ErrUnsupportedLanguage),
		domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrArtifactNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrMalformedModelResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case domain.IsKind(err, domain.ErrUnsupportedLanguage):
		return "unsupported_language"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid_input"
	case domain.IsKind(err, domain.ErrExtractionFailed):
		return "extraction_failed"
	case domain.IsKind(err, domain.ErrArtifactNotFound):
		return "artifact_not_found"
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return "model_unavailable"
	case domain.IsKind(err, domain.ErrMalformedModelResponse):
		return "malformed_model_response"
	default:
		return "internal"
	}
}
