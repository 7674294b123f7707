package domain

// KeyClause ties one clause of the reviewed document to the statute or
// article it connects to.
type KeyClause struct {
	Clause         string `json:"clause"`
	LegalReference string `json:"legal_reference"`
}

// AnalysisResult is the structured model output for a single upload. It is
// derived once per request and never persisted; only the artifact metadata
// is durable.
type AnalysisResult struct {
	DocumentID   string      `json:"document_id"`
	Summary      string      `json:"summary"`
	RiskAnalysis string      `json:"risk_analysis"`
	KeyClauses   []KeyClause `json:"key_clauses"`
	Ambiguities  string      `json:"ambiguities"`

	// DocumentText carries the extracted text back to the caller so the
	// chat UI can replay it as grounding context.
	DocumentText string `json:"document_text"`
}
