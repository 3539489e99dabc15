package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/becomeliminal/agenter-go/core"
)

// LogFileName is the fact log file inside the storage directory.
const LogFileName = "mid_term.jsonl"

// FactStore is the durable append-only fact log: one ObjectiveFact
// JSON object per line, in append order. Append order must equal
// timestamp order for recency queries to be correct, which holds under
// the single-writer discipline the store assumes; the internal mutex
// serializes writers within this process only.
type FactStore struct {
	dir  string
	path string

	mu sync.Mutex

	// Optional derived similarity index. Indexing is best-effort:
	// failures never fail an append.
	index    Index
	embedder Embedder
}

// StoreOption configures a FactStore.
type StoreOption func(*FactStore)

// WithIndex attaches a similarity index and the embedder used to
// produce vectors for newly appended facts.
func WithIndex(index Index, embedder Embedder) StoreOption {
	return func(s *FactStore) {
		s.index = index
		s.embedder = embedder
	}
}

// NewFactStore creates a store rooted at storageDir. The directory and
// log file are created lazily on first use.
func NewFactStore(storageDir string, opts ...StoreOption) *FactStore {
	s := &FactStore{
		dir:  storageDir,
		path: filepath.Join(storageDir, LogFileName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the log file.
func (s *FactStore) Path() string {
	return s.path
}

// Append writes the fact durably, then offers it to the similarity
// index. The call does not return before the log write is synced;
// index failures degrade silently.
func (s *FactStore) Append(ctx context.Context, fact core.ObjectiveFact) error {
	line, err := json.Marshal(fact)
	if err != nil {
		return fmt.Errorf("marshal fact: %w", err)
	}

	s.mu.Lock()
	err = s.appendLine(line)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.indexFact(ctx, fact)
	return nil
}

func (s *FactStore) appendLine(line []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open fact log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append fact: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync fact log: %w", err)
	}
	return nil
}

// indexFact offers a fact to the similarity index, best-effort.
func (s *FactStore) indexFact(ctx context.Context, fact core.ObjectiveFact) {
	if s.index == nil || s.embedder == nil {
		return
	}
	embedding, err := s.embedder.Embed(ctx, fact.Content)
	if err != nil {
		log.Printf("[MEMORY] Embed for index failed: %v", err)
		return
	}
	metadata := map[string]string{
		"type":      string(fact.Type),
		"timestamp": fmt.Sprintf("%d", fact.Timestamp),
	}
	if err := s.index.Upsert(ctx, fact.ID, embedding, fact.Content, metadata); err != nil {
		log.Printf("[MEMORY] Index upsert failed: %v", err)
	}
}

// ReadAll returns every structurally valid fact in append order.
// Malformed or unknown lines are silently dropped.
func (s *FactStore) ReadAll(ctx context.Context) ([]core.ObjectiveFact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open fact log: %w", err)
	}
	defer f.Close()

	var facts []core.ObjectiveFact
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var fact core.ObjectiveFact
		if err := json.Unmarshal(line, &fact); err != nil {
			continue
		}
		if !fact.Valid() {
			continue
		}
		facts = append(facts, fact)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fact log: %w", err)
	}
	return facts, nil
}

// Recent returns the last n facts in append order. n <= 0 returns nil;
// a smaller store returns everything it has.
func (s *FactStore) Recent(ctx context.Context, n int) ([]core.ObjectiveFact, error) {
	if n <= 0 {
		return nil, nil
	}
	facts, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(facts) > n {
		facts = facts[len(facts)-n:]
	}
	return facts, nil
}

// Since returns all facts with timestamp >= ts, in append order.
func (s *FactStore) Since(ctx context.Context, ts int64) ([]core.ObjectiveFact, error) {
	facts, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []core.ObjectiveFact
	for _, fact := range facts {
		if fact.Timestamp >= ts {
			matched = append(matched, fact)
		}
	}
	return matched, nil
}

// HasFact reports whether any stored fact satisfies the predicate.
// Used to keep one-shot seed messages idempotent across restarts.
func (s *FactStore) HasFact(ctx context.Context, predicate func(core.ObjectiveFact) bool) (bool, error) {
	facts, err := s.ReadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, fact := range facts {
		if predicate(fact) {
			return true, nil
		}
	}
	return false, nil
}

// Reset truncates the log to empty and resets the similarity index.
// Irreversible. Index reset failures degrade silently like upserts.
func (s *FactStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	err := func() error {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
		if err := os.WriteFile(s.path, nil, 0o644); err != nil {
			return fmt.Errorf("truncate fact log: %w", err)
		}
		return nil
	}()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Reset(ctx); err != nil {
			log.Printf("[MEMORY] Index reset failed: %v", err)
		}
	}
	return nil
}
