package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/nyayalens/nyayalens/internal/config"
	"github.com/nyayalens/nyayalens/internal/core/domain"
	"github.com/nyayalens/nyayalens/internal/core/ports"
	"github.com/nyayalens/nyayalens/internal/observability/metrics"
)

type Router struct {
	cfg       config.Config
	analyzer  ports.DocumentAnalyzer
	chat      ports.ChatService
	artifacts ports.ArtifactReader
	pipeline  *metrics.Pipeline
}

func NewRouter(
	cfg config.Config,
	analyzer ports.DocumentAnalyzer,
	chat ports.ChatService,
	artifacts ports.ArtifactReader,
	pipeline *metrics.Pipeline,
) *Router {
	return &Router{
		cfg:       cfg,
		analyzer:  analyzer,
		chat:      chat,
		artifacts: artifacts,
		pipeline:  pipeline,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.pipeline.Handler())
	mux.HandleFunc("/v1/analyze", rt.analyzeDocument)
	mux.HandleFunc("/v1/chat", rt.continueChat)
	mux.HandleFunc("/v1/artifacts/", rt.listArtifacts)
	return requestIDMiddleware(observeMiddleware(rt.pipeline, mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	maxBytes := rt.cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "uploaded file is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "uploaded file is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = path.Ext(fileHeader.Filename)
	}

	start := time.Now()
	result, err := rt.analyzer.Analyze(
		r.Context(),
		data,
		mimeType,
		fileHeader.Filename,
		r.FormValue("language"),
	)
	rt.pipeline.RecordAnalysis(outcomeLabel(err), time.Since(start))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	History      []domain.ConversationTurn `json:"history"`
	Question     string                    `json:"question"`
	DocumentText string                    `json:"document_text"`
	Language     string                    `json:"language"`
}

func (rt *Router) continueChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	turn, err := rt.chat.Continue(r.Context(), req.History, req.Question, req.DocumentText, req.Language)
	rt.pipeline.RecordChat(outcomeLabel(err))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

func (rt *Router) listArtifacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	documentID := strings.TrimPrefix(r.URL.Path, "/v1/artifacts/")
	if documentID == "" || strings.Contains(documentID, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	records, err := rt.artifacts.ListByDocumentID(r.Context(), documentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": documentID,
		"records":     records,
	})
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return errorKind(err)
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func writeError(w http.ResponseWriter, err error) {
	kind := errorKind(err)
	w.Header().Set(errorKindHeader, kind)
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{
		"error": err.Error(),
		"kind":  kind,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
