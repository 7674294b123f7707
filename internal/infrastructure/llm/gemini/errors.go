package gemini

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	"github.com/nyayalens/nyayalens/internal/infrastructure/resilience"
)

// classifyGeminiError decides whether a failed call should count against
// the circuit breaker. Caller-side cancellations and client errors such as
// bad credentials must not trip the circuit; outages and quota exhaustion
// should.
func classifyGeminiError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if resilience.IsCircuitOpen(err) {
		return true
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return isOutageStatus(apiErr.Code)
	}

	// Anything else (transport failures, DNS, unexpected SDK errors) is
	// presumed to be on the provider side.
	return true
}

func isOutageStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
