package domain

import "time"

type ArtifactStatus string

const (
	StatusReceived ArtifactStatus = "received"
	StatusAnalyzed ArtifactStatus = "analyzed"
	StatusFailed   ArtifactStatus = "failed"
)

// ArtifactRecord is one append-only metadata row describing an
// upload/analysis attempt. Records are never updated in place: a failed
// analysis appends a second row with the same document id.
type ArtifactRecord struct {
	DocumentID      string         `json:"document_id"`
	Filename        string         `json:"filename"`
	UploadTimestamp time.Time      `json:"upload_timestamp"`
	Status          ArtifactStatus `json:"status"`
	StoragePath     string         `json:"storage_path,omitempty"`
}
