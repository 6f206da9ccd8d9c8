package reports

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tncerror "github.com/msto63/tnc/foundation/core/error"
	"github.com/msto63/tnc/internal/frontend"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "db", "reports.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		File:           "main.tn",
		Duration:       42 * time.Millisecond,
		TokenCount:     17,
		StatementCount: 3,
		ErrorCount:     2,
		Diagnostics: []Diagnostic{
			{Code: "SYNTAX", Line: 1, Message: "first", Near: "else"},
			{Code: "SYNTAX", Line: 3, Message: "second"},
		},
	}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if run.ID == "" {
		t.Fatal("Record() should assign an ID")
	}
	if run.Status != StatusFailed {
		t.Errorf("Status = %v, want failed", run.Status)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.File != "main.tn" || got.TokenCount != 17 || got.StatementCount != 3 || got.ErrorCount != 2 {
		t.Errorf("Get() = %+v, want the recorded counts", got)
	}
	if got.Duration != 42*time.Millisecond {
		t.Errorf("Duration = %v, want 42ms", got.Duration)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}

	diagnostics, err := store.Diagnostics(ctx, run.ID)
	if err != nil {
		t.Fatalf("Diagnostics() error = %v", err)
	}
	if len(diagnostics) != 2 {
		t.Fatalf("Diagnostics() returned %d, want 2", len(diagnostics))
	}
	if diagnostics[0] != run.Diagnostics[0] || diagnostics[1] != run.Diagnostics[1] {
		t.Errorf("Diagnostics() = %+v, want %+v", diagnostics, run.Diagnostics)
	}
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !tncerror.HasCode(err, tncerror.CodeNotFound) {
		t.Errorf("Get() error = %v, want NOT_FOUND", err)
	}
}

func TestQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	runs := []*Run{
		{File: "a.tn", StartedAt: now.Add(-3 * time.Hour)},
		{File: "b.tn", StartedAt: now.Add(-2 * time.Hour), ErrorCount: 1},
		{File: "a.tn", StartedAt: now.Add(-1 * time.Hour), ErrorCount: 1},
	}
	for _, run := range runs {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{runs[2].ID, runs[1].ID, runs[0].ID}},
		{"by file", Filter{File: "a.tn"}, []string{runs[2].ID, runs[0].ID}},
		{"by status", Filter{Status: StatusFailed}, []string{runs[2].ID, runs[1].ID}},
		{"since", Filter{Since: now.Add(-150 * time.Minute)}, []string{runs[2].ID, runs[1].ID}},
		{"limit", Filter{Limit: 1}, []string{runs[2].ID}},
		{"no match", Filter{File: "c.tn"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Query() returned %d runs, want %d", len(got), len(tt.want))
			}
			for i, run := range got {
				if run.ID != tt.want[i] {
					t.Errorf("run %d = %s, want %s", i, run.ID, tt.want[i])
				}
			}
		})
	}
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := &Run{File: "old.tn", StartedAt: time.Now().Add(-48 * time.Hour), ErrorCount: 1,
		Diagnostics: []Diagnostic{{Code: "SYNTAX", Line: 1, Message: "old"}}}
	recent := &Run{File: "new.tn"}
	for _, run := range []*Run{old, recent} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	deleted, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}

	if _, err := store.Get(ctx, old.ID); !tncerror.HasCode(err, tncerror.CodeNotFound) {
		t.Errorf("old run still present: %v", err)
	}
	if _, err := store.Get(ctx, recent.ID); err != nil {
		t.Errorf("recent run missing: %v", err)
	}
	diagnostics, err := store.Diagnostics(ctx, old.ID)
	if err != nil {
		t.Fatalf("Diagnostics() error = %v", err)
	}
	if len(diagnostics) != 0 {
		t.Errorf("pruned run kept %d diagnostics", len(diagnostics))
	}
}

func TestNewRun(t *testing.T) {
	started := time.Now()

	t.Run("success", func(t *testing.T) {
		res, err := frontend.Compile("ok.tn", "x = 1\ny = 2\n", frontend.Options{})
		run := NewRun("ok.tn", started, time.Millisecond, res, err)
		if run.Status != StatusOK || run.ErrorCount != 0 {
			t.Errorf("run = %+v, want ok without errors", run)
		}
		if run.StatementCount != 2 {
			t.Errorf("StatementCount = %d, want 2", run.StatementCount)
		}
		if run.TokenCount != len(res.Tokens) {
			t.Errorf("TokenCount = %d, want %d", run.TokenCount, len(res.Tokens))
		}
	})

	t.Run("parse errors", func(t *testing.T) {
		res, err := frontend.Compile("bad.tn", "else:\n  x = 1\ncase 2:\n", frontend.Options{})
		run := NewRun("bad.tn", started, time.Millisecond, res, err)
		if run.Status != StatusFailed || run.ErrorCount != 2 {
			t.Fatalf("run = %+v, want failed with 2 errors", run)
		}
		if run.TokenCount == 0 {
			t.Error("TokenCount = 0, want the lexed tokens")
		}
		if run.Diagnostics[0].Line != 1 || run.Diagnostics[1].Line != 3 {
			t.Errorf("lines = %d, %d, want 1, 3", run.Diagnostics[0].Line, run.Diagnostics[1].Line)
		}
		if run.Diagnostics[0].Code != string(tncerror.CodeSyntax) {
			t.Errorf("Code = %s, want SYNTAX", run.Diagnostics[0].Code)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		run := NewRun("gone.tn", started, 0, nil, errors.New("disk on fire"))
		if run.ErrorCount != 1 || !strings.Contains(run.Diagnostics[0].Message, "disk on fire") {
			t.Errorf("run = %+v, want the cause in the message", run)
		}
	})
}
