// Package testutil provides shared test helpers for databases and generators.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "momwise-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// StubGenerator returns a fixed reply (or error) and records every request.
type StubGenerator struct {
	Reply string
	Err   error

	mu       sync.Mutex
	requests []llm.Request
}

// Generate implements the generator interfaces used by the services.
func (g *StubGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.Reply, g.Err
}

// Calls returns how many times Generate was invoked.
func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// Last returns the most recent request.
func (g *StubGenerator) Last() llm.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return llm.Request{}
	}
	return g.requests[len(g.requests)-1]
}
