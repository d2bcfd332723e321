// Package knowledge provides a full-text knowledge base for
// retrieval-augmented agents. Documents are indexed with bleve, either in
// memory or persisted on disk, and surfaced to agents through a
// search_knowledge tool.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/rjhall/agentrt/policy"
)

// ErrStoreClosed is returned for operations on a closed store.
var ErrStoreClosed = errors.New("knowledge store closed")

// Document is one indexed knowledge entry.
type Document struct {
	ID      string   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content"`
	Source  string   `json:"source,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Result is one search hit.
type Result struct {
	ID      string  `json:"id"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score"`
}

// Store is a bleve-backed knowledge base.
type Store struct {
	mu         sync.RWMutex
	idx        bleve.Index
	closed     bool
	searchType policy.SearchType
	maxResults int
	minScore   float64
}

// NewStore opens a knowledge base per the policy. The memory store starts
// empty every time; the disk store reopens an existing index at Path.
func NewStore(p policy.KnowledgePolicy) (*Store, error) {
	var (
		idx bleve.Index
		err error
	)
	switch p.Store {
	case policy.KnowledgeStoreDisk:
		path := strings.TrimSpace(p.Path)
		if path == "" {
			return nil, fmt.Errorf("knowledge disk store requires a path")
		}
		idx, err = bleve.Open(path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			idx, err = bleve.New(path, bleve.NewIndexMapping())
		}
	default:
		idx, err = bleve.NewMemOnly(bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open knowledge index: %w", err)
	}

	s := &Store{
		idx:        idx,
		searchType: p.SearchType,
		maxResults: p.MaxResults,
		minScore:   p.MinScore,
	}
	if s.maxResults <= 0 {
		s.maxResults = policy.DefaultKnowledgeMaxResults
	}
	return s, nil
}

// AddDocument indexes a document. A missing ID is generated.
func (s *Store) AddDocument(doc Document) (string, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return "", fmt.Errorf("document content is empty")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrStoreClosed
	}
	if err := s.idx.Index(doc.ID, doc); err != nil {
		return "", fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	return doc.ID, nil
}

// AddSource loads a text file, or every regular file in a directory, into
// the knowledge base. Each file becomes one document whose source is its
// path.
func (s *Store) AddSource(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("knowledge source: %w", err)
	}

	if !info.IsDir() {
		if err := s.addFile(path); err != nil {
			return 0, err
		}
		return 1, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, fmt.Errorf("knowledge source: %w", err)
	}
	added := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := s.addFile(filepath.Join(path, entry.Name())); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *Store) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("knowledge source %s: %w", path, err)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	_, err = s.AddDocument(Document{
		Title:   title,
		Content: string(data),
		Source:  path,
	})
	return err
}

// Search runs a query and returns hits at or above the minimum score,
// capped at the configured maximum.
func (s *Store) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(query), s.maxResults, 0, false)
	req.Fields = []string{"title", "content", "source"}

	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("knowledge search: %w", err)
	}

	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if hit.Score < s.minScore {
			continue
		}
		out = append(out, Result{
			ID:      hit.ID,
			Title:   stringField(hit.Fields, "title"),
			Content: stringField(hit.Fields, "content"),
			Source:  stringField(hit.Fields, "source"),
			Score:   hit.Score,
		})
	}
	return out, nil
}

func (s *Store) buildQuery(input string) query.Query {
	if s.searchType == policy.SearchTypeQuery {
		return bleve.NewQueryStringQuery(input)
	}
	return bleve.NewMatchQuery(input)
}

// Count returns the number of indexed documents.
func (s *Store) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return s.idx.DocCount()
}

// Close releases the index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.idx.Close()
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
