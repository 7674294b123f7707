// Package knowledge loads the two static grounding corpora at startup.
// The resulting Corpus is immutable and passed explicitly into prompt
// construction; there is no reload path.
package knowledge

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Corpus struct {
	PenalCode    string
	Constitution string
}

// Load reads both corpora from disk once. A missing or unreadable file
// degrades to an empty corpus with a warning: analyses still work, the
// legal connections just get less specific.
func Load(penalCodePath, constitutionPath string) Corpus {
	return Corpus{
		PenalCode:    loadFile("penal_code", penalCodePath),
		Constitution: loadFile("constitution", constitutionPath),
	}
}

func (c Corpus) Empty() bool {
	return c.PenalCode == "" && c.Constitution == ""
}

func loadFile(name, path string) string {
	if path == "" {
		slog.Warn("knowledge_corpus_not_configured", "corpus", name)
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("knowledge_corpus_unavailable", "corpus", name, "path", path, "error", fmt.Sprint(err))
		return ""
	}
	text := strings.TrimSpace(string(raw))
	slog.Info("knowledge_corpus_loaded", "corpus", name, "path", path, "bytes", len(text))
	return text
}
