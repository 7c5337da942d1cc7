package clauses

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"legalmail-backend/internal/extract"
)

const (
	collectionName = "contract-clauses"
	defaultK       = 3
)

// builtinSnippet backs retrieval when no corpus is configured. The clause
// numbers line up with the ones the drafting guidelines reference.
const builtinSnippet = "9.1 Termination for Cause. Either party may terminate this Agreement upon thirty (30) days written notice if the other party materially breaches and fails to cure within the notice period.\n\n" +
	"9.2 Termination for Convenience. The client may terminate any Statement of Work for convenience upon sixty (60) days written notice, subject to payment for services rendered.\n\n" +
	"10.2 Limitation of Liability. Neither party's aggregate liability shall exceed the fees paid in the twelve (12) months preceding the claim, excluding breaches of confidentiality."

// Store indexes contract clauses in an embedded vector database and returns
// the passages most relevant to a query snippet.
type Store struct {
	collection     *chromem.Collection
	defaultSnippet string
}

// Config controls corpus location and index persistence.
type Config struct {
	// CorpusDir holds clause files (.txt, .md, .pdf, .docx). Optional.
	CorpusDir string
	// PersistDir stores the index on disk; empty keeps it in memory.
	PersistDir string
}

// New builds a Store and indexes the corpus. A file named
// default_snippet.txt replaces the built-in fallback snippet.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var db *chromem.DB
	var err error
	if cfg.PersistDir != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistDir, false)
		if err != nil {
			return nil, fmt.Errorf("opening clause index: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, localEmbedding)
	if err != nil {
		return nil, fmt.Errorf("creating clause collection: %w", err)
	}

	s := &Store{collection: collection, defaultSnippet: builtinSnippet}
	if cfg.CorpusDir != "" {
		if err := s.loadCorpus(ctx, cfg.CorpusDir); err != nil {
			return nil, fmt.Errorf("loading clause corpus: %w", err)
		}
	}
	return s, nil
}

func (s *Store) loadCorpus(ctx context.Context, dir string) error {
	var docs []chromem.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		text, err := extract.FromFile(path)
		if errors.Is(err, extract.ErrUnsupported) {
			return nil
		}
		if err != nil {
			log.Printf("clauses: skipping %s: %v", path, err)
			return nil
		}
		if text == "" {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		if filepath.Base(path) == "default_snippet.txt" {
			s.defaultSnippet = text
		}
		docs = append(docs, chromem.Document{ID: rel, Content: text})
		return nil
	})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	return s.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Retrieve returns the clause passages most relevant to query, joined by
// blank lines. An empty query and an empty index both degrade to the default
// snippet, so drafting always has something to cite.
func (s *Store) Retrieve(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.defaultSnippet, nil
	}

	count := s.collection.Count()
	if count == 0 {
		return s.fallback(query), nil
	}

	k := defaultK
	if k > count {
		k = count
	}
	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		log.Printf("clauses: query failed: %v", err)
		return s.defaultSnippet, nil
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// fallback crudely checks keyword overlap against the default snippet.
func (s *Store) fallback(query string) string {
	base := s.defaultSnippet
	if base == "" {
		return ""
	}
	lowerBase := strings.ToLower(base)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 3 && strings.Contains(lowerBase, w) {
			return base
		}
	}
	if len(base) > 1000 {
		return base[:1000]
	}
	return base
}
