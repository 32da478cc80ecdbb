package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"waste-cost/core/analysis"
	"waste-cost/core/output"
	"waste-cost/core/types"
	"waste-cost/internal/errors"
)

func stores(t *testing.T) map[string]Store {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "history"))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
	}
}

func run(id, source string, total int64, at time.Time) *StoredRun {
	return &StoredRun{
		ID:        id,
		Source:    source,
		TotalCost: decimal.NewFromInt(total),
		CreatedAt: at,
	}
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			for _, r := range []*StoredRun{
				run("r1", "a.csv", 100, base),
				run("r2", "a.csv", 80, base.Add(time.Hour)),
				run("r3", "b.csv", 50, base.Add(2*time.Hour)),
			} {
				if err := store.Save(ctx, r); err != nil {
					t.Fatalf("save %s: %v", r.ID, err)
				}
			}

			got, err := store.Get(ctx, "r2")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !got.TotalCost.Equal(decimal.NewFromInt(80)) {
				t.Errorf("expected total 80, got %s", got.TotalCost)
			}

			all, err := store.List(ctx, nil)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 3 || all[0].ID != "r3" || all[2].ID != "r1" {
				t.Errorf("expected newest first, got %v", ids(all))
			}

			filtered, _ := store.List(ctx, &ListFilter{Source: "a.csv", Since: base.Add(time.Minute)})
			if len(filtered) != 1 || filtered[0].ID != "r2" {
				t.Errorf("unexpected filtered runs %v", ids(filtered))
			}

			latest, err := store.Latest(ctx, "a.csv")
			if err != nil || latest.ID != "r2" {
				t.Errorf("expected latest r2, got %v, %v", latest, err)
			}

			cmp, err := store.Compare(ctx, "r1", "r2")
			if err != nil {
				t.Fatalf("compare: %v", err)
			}
			if !cmp.Delta.Equal(decimal.NewFromInt(-20)) || !cmp.DeltaPercent.Equal(decimal.NewFromInt(-20)) {
				t.Errorf("unexpected comparison %+v", cmp)
			}

			if err := store.Delete(ctx, "r1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "r1"); !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected not found after delete, got %v", err)
			}
			if err := store.Delete(ctx, "r1"); err == nil {
				t.Error("expected error deleting a missing run")
			}
			if _, err := store.Latest(ctx, "c.csv"); err == nil {
				t.Error("expected error for dataset without runs")
			}
		})
	}
}

func TestSaveAssignsIdentity(t *testing.T) {
	store := NewMemoryStore()
	r := &StoredRun{Source: "a.csv"}
	if err := store.Save(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Errorf("expected generated id and timestamp, got %+v", r)
	}
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), run("ok", "a.csv", 1, time.Now())); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "ok" {
		t.Errorf("expected only the valid run, got %v", ids(runs))
	}
	if _, err := store.Get(context.Background(), "broken"); !errors.IsType(err, errors.TypeDataFormat) {
		t.Errorf("expected data format error for corrupt file, got %v", err)
	}
}

func TestFromResult(t *testing.T) {
	result := &output.AnalysisResult{
		TotalWasteCost: decimal.NewFromInt(40),
		Simulation: &analysis.Simulation{
			Fraction:          decimal.RequireFromString("0.3"),
			CriticalMaterials: []string{"A", "B"},
			SimulatedTotal:    decimal.NewFromInt(28),
			ReductionPct:      decimal.NewFromInt(30),
		},
		Preparation: analysis.PrepareStats{Records: 2},
		Metadata: output.RunMetadata{
			RunID:     "run-1",
			Timestamp: "2024-03-01T12:00:00Z",
			Source:    types.Source{Path: "data.csv", Hash: "abc"},
		},
	}

	r := FromResult(result)
	if r.ID != "run-1" || r.Source != "data.csv" || r.SourceHash != "abc" || r.Records != 2 {
		t.Errorf("unexpected identity fields %+v", r)
	}
	if !r.SimulatedCost.Equal(decimal.NewFromInt(28)) || !r.ReductionPct.Equal(decimal.NewFromInt(30)) {
		t.Errorf("unexpected simulation fields %+v", r)
	}
	if !r.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %s", r.CreatedAt)
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open(BackendMemory, ""); err != nil {
		t.Errorf("memory backend: %v", err)
	}
	if _, err := Open(BackendFile, t.TempDir()); err != nil {
		t.Errorf("file backend: %v", err)
	}
	if _, err := Open("s3", ""); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func ids(runs []*StoredRun) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}
