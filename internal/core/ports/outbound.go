package ports

import (
	"context"
	"io"
	"time"

	"github.com/nyayalens/nyayalens/internal/core/domain"
)

// TextExtractor turns raw document bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

// ImageTextReader performs OCR on image bytes via an external capability.
type ImageTextReader interface {
	ReadImageText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// AnalysisModel generates the structured analysis reply for a composed prompt.
type AnalysisModel interface {
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)
}

// ChatModel completes one model turn for a fully replayed conversation.
type ChatModel interface {
	Chat(ctx context.Context, turns []domain.ConversationTurn) (string, error)
}

// ObjectStorage keeps a durable copy of uploaded documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
}

// ArtifactStore appends and reads artifact metadata rows.
type ArtifactStore interface {
	Append(ctx context.Context, record *domain.ArtifactRecord) error
	ListByDocumentID(ctx context.Context, documentID string) ([]domain.ArtifactRecord, error)
}

// EventPublisher emits analysis lifecycle events for downstream consumers.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, documentID string, status domain.ArtifactStatus) error
}

// PipelineObserver records stage timings and pipeline counters.
// Observation is optional: use cases accept a nil observer.
type PipelineObserver interface {
	ObserveStage(stage string, duration time.Duration)
	RecordBestEffortFailure(step string)
	RecordChatHistory(turns int)
}
