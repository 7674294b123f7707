package ports

import (
	"context"

	"github.com/nyayalens/nyayalens/internal/core/domain"
)

// DocumentAnalyzer is the inbound contract for the upload-then-analyze cycle.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, data []byte, mimeType, filename, language string) (*domain.AnalysisResult, error)
}

// ChatService continues a client-supplied conversation by one model turn.
type ChatService interface {
	Continue(ctx context.Context, history []domain.ConversationTurn, question, documentText, language string) (*domain.ConversationTurn, error)
}

// ArtifactReader is the inbound read model for artifact metadata.
type ArtifactReader interface {
	ListByDocumentID(ctx context.Context, documentID string) ([]domain.ArtifactRecord, error)
}
