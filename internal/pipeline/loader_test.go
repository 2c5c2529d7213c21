package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/billu/internal/store"
)

func writeLedger(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func testLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeLedger(t, filepath.Join(dir, "hdfc", "2024-01.jsonl"),
		`{"id":"a1","date":"2024-01-05","amount":250,"category":"coffee"}
{"id":"a2","date":"2024-01-20","amount":50000,"kind":"income","category":"salary"}
not json
`)
	writeLedger(t, filepath.Join(dir, "cash.jsonl"),
		`{"id":"c1","date":"2024-01-02","amount":80,"category":"transport"}
`)
	return dir
}

func TestLoad(t *testing.T) {
	dir := testLedger(t)

	var lastCur, lastTotal int
	result, err := Load(dir, func(cur, total int) { lastCur, lastTotal = cur, total })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.TotalFiles != 2 || result.ParsedFiles != 2 || result.AccountCount != 2 {
		t.Errorf("result = %+v", result)
	}
	if result.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", result.ParseErrors)
	}
	if len(result.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(result.Transactions))
	}
	if result.Transactions[0].ID != "c1" {
		t.Errorf("first = %q, want chronological order", result.Transactions[0].ID)
	}
	if lastCur != 2 || lastTotal != 2 {
		t.Errorf("progress = %d/%d", lastCur, lastTotal)
	}
}

func TestLoadMissingDir(t *testing.T) {
	result, err := Load(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 0 || len(result.Transactions) != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := testLedger(t)
	cache, err := store.Open(filepath.Join(t.TempDir(), "billu.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Reparsed != 2 || first.CacheHits != 0 || len(first.Transactions) != 3 {
		t.Errorf("first = %+v", first)
	}

	second, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.CacheHits != 2 || second.Reparsed != 0 || len(second.Transactions) != 3 {
		t.Errorf("second = %+v", second)
	}

	// Touch one file with new content and remove the other.
	cash := filepath.Join(dir, "cash.jsonl")
	writeLedger(t, cash, `{"id":"c1","date":"2024-01-02","amount":80}
{"id":"c2","date":"2024-01-03","amount":20}
`)
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(cash, future, future); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(filepath.Join(dir, "hdfc")); err != nil {
		t.Fatal(err)
	}

	third, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.Reparsed != 1 || third.Pruned != 1 || len(third.Transactions) != 2 {
		t.Errorf("third = %+v", third)
	}
	if n, _ := cache.TransactionCount(); n != 2 {
		t.Errorf("cached transactions = %d, want 2", n)
	}
}
