package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorpusFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadReadsBothCorpora(t *testing.T) {
	penal := writeCorpusFile(t, "bns.txt", "Section 303. Theft.\n")
	constitution := writeCorpusFile(t, "constitution.txt", "  Article 21. Life and liberty.  ")

	corpus := Load(penal, constitution)
	if corpus.PenalCode != "Section 303. Theft." {
		t.Fatalf("unexpected penal code corpus %q", corpus.PenalCode)
	}
	if corpus.Constitution != "Article 21. Life and liberty." {
		t.Fatalf("expected trimmed constitution corpus, got %q", corpus.Constitution)
	}
	if corpus.Empty() {
		t.Fatalf("Empty() = true for loaded corpus")
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	penal := writeCorpusFile(t, "bns.txt", "Section 303.")

	corpus := Load(penal, filepath.Join(t.TempDir(), "absent.txt"))
	if corpus.PenalCode == "" {
		t.Fatalf("expected penal code corpus to survive")
	}
	if corpus.Constitution != "" {
		t.Fatalf("expected empty constitution corpus, got %q", corpus.Constitution)
	}
}

func TestLoadUnconfiguredPaths(t *testing.T) {
	corpus := Load("", "")
	if !corpus.Empty() {
		t.Fatalf("Empty() = false for unconfigured corpus")
	}
}
