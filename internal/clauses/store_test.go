package clauses

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestRetrieveRanksRelevantClause(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"termination.txt": "9.1 Termination for Cause. Either party may terminate upon thirty days written notice for material breach.",
		"liability.txt":   "10.2 Limitation of Liability. Aggregate liability shall not exceed fees paid in the preceding twelve months.",
		"payment.txt":     "4.3 Payment Terms. Invoices are due within thirty days of receipt.",
	})

	store, err := New(context.Background(), Config{CorpusDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := store.Retrieve(context.Background(), "can we terminate for material breach")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	first := strings.SplitN(got, "\n\n", 2)[0]
	if !strings.Contains(first, "9.1 Termination") {
		t.Fatalf("top result should be the termination clause, got %q", first)
	}
}

func TestRetrieveEmptyQueryReturnsDefault(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"default_snippet.txt": "9.2 Termination for Convenience. Sixty days notice.",
	})

	store, err := New(context.Background(), Config{CorpusDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := store.Retrieve(context.Background(), "  ")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got != "9.2 Termination for Convenience. Sixty days notice." {
		t.Fatalf("got %q", got)
	}
}

func TestRetrieveWithoutCorpusUsesBuiltin(t *testing.T) {
	store, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := store.Retrieve(context.Background(), "liability limits")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !strings.Contains(got, "10.2 Limitation of Liability") {
		t.Fatalf("expected builtin snippet, got %q", got)
	}
}

func TestRetrievePersistsIndex(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"clauses.txt": "7.1 Confidentiality. Each party shall protect the other's confidential information.",
	})
	persist := filepath.Join(t.TempDir(), "index")

	store, err := New(context.Background(), Config{CorpusDir: corpus, PersistDir: persist})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := store.Retrieve(context.Background(), "confidential information"); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	// A fresh store on the same path sees the indexed clause without a corpus.
	reopened, err := New(context.Background(), Config{PersistDir: persist})
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	got, err := reopened.Retrieve(context.Background(), "confidential information")
	if err != nil {
		t.Fatalf("Retrieve (reopen): %v", err)
	}
	if !strings.Contains(got, "7.1 Confidentiality") {
		t.Fatalf("expected persisted clause, got %q", got)
	}
}
