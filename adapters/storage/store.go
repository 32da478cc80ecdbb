// Package storage keeps a history of analysis runs.
// Supports a file backend (one JSON document per run) and an in-memory backend.
package storage

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"waste-cost/core/determinism"
	"waste-cost/core/output"
	"waste-cost/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Store is the storage interface
type Store interface {
	// Save stores a run
	Save(ctx context.Context, run *StoredRun) error

	// Get retrieves a run by ID
	Get(ctx context.Context, id string) (*StoredRun, error)

	// List lists runs newest first
	List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error)

	// Delete removes a run
	Delete(ctx context.Context, id string) error

	// Latest gets the most recent run of a dataset
	Latest(ctx context.Context, source string) (*StoredRun, error)

	// Compare compares two runs
	Compare(ctx context.Context, oldID, newID string) (*CompareResult, error)

	// Close closes the store
	Close() error
}

// StoredRun is the persisted summary of one analysis run
type StoredRun struct {
	ID                string          `json:"id"`
	Source            string          `json:"source"`
	SourceHash        string          `json:"source_hash"`
	Records           int             `json:"records"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	SimulatedCost     decimal.Decimal `json:"simulated_cost"`
	ReductionPct      decimal.Decimal `json:"reduction_pct"`
	Fraction          decimal.Decimal `json:"fraction"`
	CriticalMaterials []string        `json:"critical_materials"`
	CreatedAt         time.Time       `json:"created_at"`
	Version           string          `json:"version,omitempty"`
}

// FromResult summarizes an analysis result for storage
func FromResult(result *output.AnalysisResult) *StoredRun {
	run := &StoredRun{
		ID:            result.Metadata.RunID,
		Source:        result.Metadata.Source.Path,
		SourceHash:    result.Metadata.Source.Hash,
		Records:       result.Preparation.Records,
		TotalCost:     result.TotalWasteCost,
		SimulatedCost: result.TotalWasteCost,
		Version:       result.Metadata.Version,
	}
	if ts, err := time.Parse(time.RFC3339, result.Metadata.Timestamp); err == nil {
		run.CreatedAt = ts
	}
	if sim := result.Simulation; sim != nil {
		run.SimulatedCost = sim.SimulatedTotal
		run.ReductionPct = sim.ReductionPct
		run.Fraction = sim.Fraction
		run.CriticalMaterials = sim.CriticalMaterials
	}
	return run
}

// ListFilter filters run listing
type ListFilter struct {
	Source string
	Since  time.Time
	Limit  int
}

func (f *ListFilter) match(run *StoredRun) bool {
	if f == nil {
		return true
	}
	if f.Source != "" && run.Source != f.Source {
		return false
	}
	if !f.Since.IsZero() && run.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// CompareResult is a comparison between two runs
type CompareResult struct {
	OldID        string          `json:"old_id"`
	NewID        string          `json:"new_id"`
	OldCost      decimal.Decimal `json:"old_cost"`
	NewCost      decimal.Decimal `json:"new_cost"`
	Delta        decimal.Decimal `json:"delta"`
	DeltaPercent decimal.Decimal `json:"delta_percent"`
}

func compare(oldRun, newRun *StoredRun) *CompareResult {
	delta := newRun.TotalCost.Sub(oldRun.TotalCost)
	deltaPercent := decimal.Zero
	if oldRun.TotalCost.IsPositive() {
		deltaPercent = delta.Div(oldRun.TotalCost).Mul(decimal.NewFromInt(100))
	}
	return &CompareResult{
		OldID:        oldRun.ID,
		NewID:        newRun.ID,
		OldCost:      oldRun.TotalCost,
		NewCost:      newRun.TotalCost,
		Delta:        delta,
		DeltaPercent: deltaPercent,
	}
}

func prepareRun(run *StoredRun) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}

// sortAndLimit orders runs newest first and applies the filter limit
func sortAndLimit(runs []*StoredRun, filter *ListFilter) []*StoredRun {
	determinism.SortSlice(runs, func(a, b *StoredRun) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if filter != nil && filter.Limit > 0 && filter.Limit < len(runs) {
		runs = runs[:filter.Limit]
	}
	return runs
}

func notFound(id string) error {
	return errors.Input("run not found: " + id).WithContext("id", id)
}

// FileStore is a file-based storage backend
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.OutputWrite(basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

func (s *FileStore) Save(ctx context.Context, run *StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepareRun(run)
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errors.Internal("failed to marshal run", err)
	}
	path := s.path(run.ID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.OutputWrite(path, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.path(id), id)
}

func (s *FileStore) read(path, id string) (*StoredRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.MissingFile(path, err)
	}
	var run StoredRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.DataFormat("corrupt run file "+path, err)
	}
	return &run, nil
}

func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, errors.MissingFile(s.basePath, err)
	}

	var runs []*StoredRun
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		run, err := s.read(filepath.Join(s.basePath, entry.Name()), id)
		if err != nil {
			// Skip unreadable entries
			continue
		}
		if filter.match(run) {
			runs = append(runs, run)
		}
	}
	return sortAndLimit(runs, filter), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.OutputWrite(s.path(id), err)
	}
	return nil
}

func (s *FileStore) Latest(ctx context.Context, source string) (*StoredRun, error) {
	runs, err := s.List(ctx, &ListFilter{Source: source, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, errors.Input("no runs recorded for " + source)
	}
	return runs[0], nil
}

func (s *FileStore) Compare(ctx context.Context, oldID, newID string) (*CompareResult, error) {
	oldRun, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newRun, err := s.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	return compare(oldRun, newRun), nil
}

func (s *FileStore) Close() error {
	return nil
}

// MemoryStore is an in-memory storage backend (for testing)
type MemoryStore struct {
	runs map[string]*StoredRun
	mu   sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]*StoredRun),
	}
}

func (s *MemoryStore) Save(ctx context.Context, run *StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepareRun(run)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, notFound(id)
	}
	return run, nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []*StoredRun
	for _, run := range s.runs {
		if filter.match(run) {
			runs = append(runs, run)
		}
	}
	return sortAndLimit(runs, filter), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return notFound(id)
	}
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) Latest(ctx context.Context, source string) (*StoredRun, error) {
	runs, err := s.List(ctx, &ListFilter{Source: source, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, errors.Input("no runs recorded for " + source)
	}
	return runs[0], nil
}

func (s *MemoryStore) Compare(ctx context.Context, oldID, newID string) (*CompareResult, error) {
	oldRun, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newRun, err := s.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	return compare(oldRun, newRun), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Open creates a store by backend type
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Input("unsupported history backend: " + string(backend))
	}
}

// Ensure interfaces are implemented
var _ io.Closer = (*FileStore)(nil)
var _ Store = (*FileStore)(nil)
var _ Store = (*MemoryStore)(nil)
