// Package testutil provides shared test helpers for setting up catalogs,
// image libraries, and scripted oracle stubs.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/kennithz884/snapmind/internal/catalog"
	"github.com/kennithz884/snapmind/internal/library"
	"github.com/kennithz884/snapmind/internal/oracle"
)

// TestDB creates a temporary SQLite catalog that is automatically cleaned up.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "snapmind-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary image library directory with a provider.
func TestLibrary(t *testing.T) (string, *library.FS) {
	t.Helper()
	dir := t.TempDir()
	files, err := library.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, files
}

// FakeOracle is a scriptable oracle.Oracle for tests. Unset functions
// return zero values.
type FakeOracle struct {
	mu sync.Mutex

	AnalyzeFn func(image []byte, mimeType string) (oracle.Analysis, error)
	ChatFn    func(question, context string) (string, error)
	MatchFn   func(query string, corpus []oracle.Doc) (string, error)

	AnalyzeCalls int
	ChatCalls    int
	MatchCalls   int
}

func (f *FakeOracle) Analyze(_ context.Context, image []byte, mimeType string) (oracle.Analysis, error) {
	f.mu.Lock()
	f.AnalyzeCalls++
	f.mu.Unlock()
	if f.AnalyzeFn == nil {
		return oracle.Analysis{}, nil
	}
	return f.AnalyzeFn(image, mimeType)
}

func (f *FakeOracle) Chat(_ context.Context, question, context string) (string, error) {
	f.mu.Lock()
	f.ChatCalls++
	f.mu.Unlock()
	if f.ChatFn == nil {
		return "", nil
	}
	return f.ChatFn(question, context)
}

// Counts returns the call counters under lock, for concurrent tests.
func (f *FakeOracle) Counts() (analyze, chat, match int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.AnalyzeCalls, f.ChatCalls, f.MatchCalls
}

func (f *FakeOracle) Match(_ context.Context, query string, corpus []oracle.Doc) (string, error) {
	f.mu.Lock()
	f.MatchCalls++
	f.mu.Unlock()
	if f.MatchFn == nil {
		return oracle.NoMatch, nil
	}
	return f.MatchFn(query, corpus)
}
