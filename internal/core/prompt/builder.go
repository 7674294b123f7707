// Package prompt composes the model-facing prompts. Every function here is
// pure: the only failure mode is an unsupported output language.
package prompt

import (
	"fmt"
	"strings"

	"github.com/nyayalens/nyayalens/internal/core/domain"
	"github.com/nyayalens/nyayalens/internal/core/knowledge"
)

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"kn": "Kannada",
}

func SupportedLanguage(language string) bool {
	_, ok := languageNames[language]
	return ok
}

// Build composes the analysis prompt from the extracted document text, the
// two grounding corpora, and the requested output language. The prompt
// demands a strict JSON object with exactly four keys; a reply missing any
// of them is rejected by the orchestrator, not patched up here.
func Build(documentText, language string, corpus knowledge.Corpus) (string, error) {
	name, ok := languageNames[language]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedLanguage, "build analysis prompt",
			fmt.Errorf("language %q not in {en, hi, kn}", language))
	}

	var b strings.Builder
	b.WriteString("You are an expert Indian legal assistant. Analyze the user's document against the ")
	b.WriteString("legal knowledge base below and respond entirely in ")
	b.WriteString(name)
	b.WriteString(".\n\n")
	b.WriteString(`Return a strict JSON object with exactly these keys and nothing else:
{
  "summary": string,
  "risk_analysis": string,
  "key_clauses": [{"clause": string, "legal_reference": string}],
  "ambiguities": string
}
No markdown, no extra keys. In "key_clauses" cite the specific section or
article number from the knowledge base (for example "BNS Section 101" or
"Article 14 of the Indian Constitution").

--- LEGAL KNOWLEDGE BASE ---
--- BHARATIYA NYAYA SANHITA (BNS) ---
`)
	b.WriteString(corpus.PenalCode)
	b.WriteString("\n\n--- INDIAN CONSTITUTION ---\n")
	b.WriteString(corpus.Constitution)
	b.WriteString("\n--- END KNOWLEDGE BASE ---\n\n--- USER'S DOCUMENT ---\n")
	b.WriteString(documentText)
	b.WriteString("\n--- END DOCUMENT ---\n")

	return b.String(), nil
}

// BuildChatTurn wraps a follow-up question together with the original
// document context into the newest user turn of a replayed conversation.
func BuildChatTurn(question, documentText, language string) (string, error) {
	name, ok := languageNames[language]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedLanguage, "build chat turn",
			fmt.Errorf("language %q not in {en, hi, kn}", language))
	}

	var b strings.Builder
	if documentText != "" {
		b.WriteString("--- DOCUMENT CONTEXT ---\n")
		b.WriteString(documentText)
		b.WriteString("\n--- END DOCUMENT CONTEXT ---\n\n")
	}
	b.WriteString("Based on the document context provided, answer this question in ")
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(question)
	return b.String(), nil
}
