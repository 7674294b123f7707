package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyayalens/nyayalens/internal/core/domain"
	"github.com/nyayalens/nyayalens/internal/core/knowledge"
	"github.com/nyayalens/nyayalens/internal/core/ports"
	"github.com/nyayalens/nyayalens/internal/core/prompt"
)

// AnalyzeDocumentUseCase runs the whole upload-then-analyze cycle for one
// request: extract text, ground a prompt in the legal corpora, call the
// model once, parse the structured reply, then persist the durable copy
// and metadata on a best-effort basis. No step is retried.
type AnalyzeDocumentUseCase struct {
	extractor ports.TextExtractor
	model     ports.AnalysisModel
	storage   ports.ObjectStorage
	artifacts ports.ArtifactStore
	events    ports.EventPublisher
	corpus    knowledge.Corpus
	observer  ports.PipelineObserver
}

func NewAnalyzeDocumentUseCase(
	extractor ports.TextExtractor,
	model ports.AnalysisModel,
	storage ports.ObjectStorage,
	artifacts ports.ArtifactStore,
	events ports.EventPublisher,
	corpus knowledge.Corpus,
	observer ports.PipelineObserver,
) *AnalyzeDocumentUseCase {
	return &AnalyzeDocumentUseCase{
		extractor: extractor,
		model:     model,
		storage:   storage,
		artifacts: artifacts,
		events:    events,
		corpus:    corpus,
		observer:  observer,
	}
}

func (uc *AnalyzeDocumentUseCase) Analyze(
	ctx context.Context,
	data []byte,
	mimeType, filename, language string,
) (*domain.AnalysisResult, error) {
	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze document", errors.New("empty document body"))
	}
	if !prompt.SupportedLanguage(language) {
		return nil, domain.WrapError(domain.ErrUnsupportedLanguage, "analyze document",
			fmt.Errorf("language %q", language))
	}

	documentID := uuid.NewString()
	uc.appendRecord(ctx, documentID, filename, domain.StatusReceived, "")

	text, err := uc.extractText(ctx, data, mimeType)
	if err != nil {
		uc.failAnalysis(ctx, documentID, filename)
		return nil, err
	}

	analysisPrompt, err := prompt.Build(text, language, uc.corpus)
	if err != nil {
		uc.failAnalysis(ctx, documentID, filename)
		return nil, err
	}

	reply, err := uc.generate(ctx, analysisPrompt)
	if err != nil {
		uc.failAnalysis(ctx, documentID, filename)
		return nil, err
	}

	result, err := parseAnalysisReply(reply)
	if err != nil {
		uc.failAnalysis(ctx, documentID, filename)
		return nil, err
	}

	storagePath := uc.saveOriginal(ctx, documentID, filename, data)
	uc.appendRecord(ctx, documentID, filename, domain.StatusAnalyzed, storagePath)
	uc.publish(ctx, documentID, domain.StatusAnalyzed)

	result.DocumentID = documentID
	result.DocumentText = text
	return result, nil
}

func (uc *AnalyzeDocumentUseCase) extractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	start := time.Now()
	text, err := uc.extractor.Extract(ctx, data, mimeType)
	uc.observeStage("extract", time.Since(start))
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

func (uc *AnalyzeDocumentUseCase) generate(ctx context.Context, analysisPrompt string) (string, error) {
	start := time.Now()
	reply, err := uc.model.GenerateAnalysis(ctx, analysisPrompt)
	uc.observeStage("generate", time.Since(start))
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}
	return reply, nil
}

// saveOriginal uploads the raw bytes keyed by document id. Failure is a
// deliberate best-effort outcome: the analysis is still returned, only the
// durable copy is missing.
func (uc *AnalyzeDocumentUseCase) saveOriginal(ctx context.Context, documentID, filename string, data []byte) string {
	key := fmt.Sprintf("uploads/%s/%s", documentID, sanitizeFilename(filename))
	start := time.Now()
	err := uc.storage.Save(ctx, key, bytes.NewReader(data))
	uc.observeStage("store", time.Since(start))
	if err != nil {
		slog.Error("storage_write_failed", "document_id", documentID, "key", key, "error", err)
		uc.recordBestEffortFailure("storage_write")
		return ""
	}
	return key
}

func (uc *AnalyzeDocumentUseCase) observeStage(stage string, duration time.Duration) {
	if uc.observer != nil {
		uc.observer.ObserveStage(stage, duration)
	}
}

func (uc *AnalyzeDocumentUseCase) recordBestEffortFailure(step string) {
	if uc.observer != nil {
		uc.observer.RecordBestEffortFailure(step)
	}
}

func (uc *AnalyzeDocumentUseCase) failAnalysis(ctx context.Context, documentID, filename string) {
	uc.appendRecord(ctx, documentID, filename, domain.StatusFailed, "")
	uc.publish(ctx, documentID, domain.StatusFailed)
}

func (uc *AnalyzeDocumentUseCase) appendRecord(ctx context.Context, documentID, filename string, status domain.ArtifactStatus, storagePath string) {
	record := &domain.ArtifactRecord{
		DocumentID:      documentID,
		Filename:        filename,
		UploadTimestamp: time.Now().UTC(),
		Status:          status,
		StoragePath:     storagePath,
	}
	if err := uc.artifacts.Append(ctx, record); err != nil {
		slog.Error("metadata_write_failed", "document_id", documentID, "status", string(status), "error", err)
		uc.recordBestEffortFailure("metadata_write")
	}
}

func (uc *AnalyzeDocumentUseCase) publish(ctx context.Context, documentID string, status domain.ArtifactStatus) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishAnalysisCompleted(ctx, documentID, status); err != nil {
		slog.Warn("analysis_event_publish_failed", "document_id", documentID, "error", err)
		uc.recordBestEffortFailure("event_publish")
	}
}

// parseAnalysisReply decodes the model's textual reply into the four
// required fields. Absence of any field is a malformed response, never a
// silently fabricated default.
func parseAnalysisReply(reply string) (*domain.AnalysisResult, error) {
	var raw struct {
		Summary      *string             `json:"summary"`
		RiskAnalysis *string             `json:"risk_analysis"`
		KeyClauses   *[]domain.KeyClause `json:"key_clauses"`
		Ambiguities  *string             `json:"ambiguities"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(reply)), &raw); err != nil {
		return nil, domain.WrapError(domain.ErrMalformedModelResponse, "parse analysis reply", err)
	}

	missing := make([]string, 0, 4)
	if raw.Summary == nil || strings.TrimSpace(*raw.Summary) == "" {
		missing = append(missing, "summary")
	}
	if raw.RiskAnalysis == nil || strings.TrimSpace(*raw.RiskAnalysis) == "" {
		missing = append(missing, "risk_analysis")
	}
	if raw.KeyClauses == nil {
		missing = append(missing, "key_clauses")
	}
	if raw.Ambiguities == nil || strings.TrimSpace(*raw.Ambiguities) == "" {
		missing = append(missing, "ambiguities")
	}
	if len(missing) > 0 {
		return nil, domain.WrapError(domain.ErrMalformedModelResponse, "parse analysis reply",
			fmt.Errorf("missing fields: %s", strings.Join(missing, ", ")))
	}

	return &domain.AnalysisResult{
		Summary:      *raw.Summary,
		RiskAnalysis: *raw.RiskAnalysis,
		KeyClauses:   *raw.KeyClauses,
		Ambiguities:  *raw.Ambiguities,
	}, nil
}

// extractJSONObject trims any wrapping the model added around the JSON
// body, such as markdown fences.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
