package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/billu/internal/model"
)

// writeLedger creates a temp JSONL file and returns a DiscoveredFile for it.
func writeLedger(t *testing.T, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Account: "test"}
}

func TestParseFile_Transactions(t *testing.T) {
	df := writeLedger(t,
		`{"id":"t1","date":"2024-01-05","amount":450,"category":"food","merchant":"McDonald's"}`,
		`{"date":"2024-01-06T08:30:00Z","amount":350,"category":"Coffee & Drinks"}`,
		``,
		`{"date":"2024-01-31","amount":50000,"kind":"income","category":"salary","merchant":"Employer"}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors != 0 {
		t.Fatalf("ParseErrors = %d, want 0", result.ParseErrors)
	}
	if len(result.Transactions) != 3 {
		t.Fatalf("len(Transactions) = %d, want 3", len(result.Transactions))
	}

	first := result.Transactions[0]
	if first.ID != "t1" || first.Amount != 450 || first.Kind != model.KindExpense || first.Category != "food" {
		t.Fatalf("first = %+v", first)
	}
	if first.FilePath != df.Path {
		t.Fatalf("FilePath = %q, want %q", first.FilePath, df.Path)
	}

	second := result.Transactions[1]
	if second.Category != "coffee" {
		t.Fatalf("display-name category not normalized: %q", second.Category)
	}
	if second.Merchant != "Unknown" {
		t.Fatalf("missing merchant = %q, want Unknown", second.Merchant)
	}
	if second.ID != "ledger.jsonl:2" {
		t.Fatalf("generated ID = %q, want ledger.jsonl:2", second.ID)
	}

	if result.Transactions[2].Kind != model.KindIncome {
		t.Fatalf("third kind = %s, want income", result.Transactions[2].Kind)
	}
}

func TestParseFile_CountsMalformedLines(t *testing.T) {
	df := writeLedger(t,
		`{"date":"2024-02-01","amount":100}`,
		`not json`,
		`{"date":"yesterday","amount":100}`,
		`{"date":"2024-02-02","amount":-5}`,
		`{"date":"2024-02-03","amount":5,"kind":"transfer"}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors != 4 {
		t.Fatalf("ParseErrors = %d, want 4", result.ParseErrors)
	}
	if len(result.Transactions) != 1 || result.Transactions[0].Category != UncategorizedID {
		t.Fatalf("transactions = %+v", result.Transactions)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.jsonl")})
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAppendTransaction_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cash", "2024.jsonl")
	tx := model.Transaction{
		ID:       "quick-1",
		Date:     time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC),
		Amount:   200,
		Kind:     model.KindExpense,
		Category: "transport",
		Merchant: "Uber",
	}
	if err := AppendTransaction(path, tx); err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	if err := AppendTransaction(path, model.Transaction{Date: tx.Date, Amount: 0, Kind: model.KindExpense}); err == nil {
		t.Fatal("expected zero amount to be rejected")
	}

	result := ParseFile(DiscoveredFile{Path: path})
	if result.Err != nil || len(result.Transactions) != 1 {
		t.Fatalf("parse after append: %+v", result)
	}
	got := result.Transactions[0]
	if got.ID != "quick-1" || got.Merchant != "Uber" || !got.Date.Equal(tx.Date) {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel string) {
		t.Helper()
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("cash.jsonl")
	mustWrite("bank/jan.jsonl")
	mustWrite("bank/feb.jsonl")
	mustWrite("bank/readme.txt")
	mustWrite(".trash/old.jsonl")

	files, err := ScanDir(root)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3: %+v", len(files), files)
	}
	if n := CountAccounts(files); n != 2 {
		t.Fatalf("CountAccounts = %d, want 2", n)
	}

	missing, err := ScanDir(filepath.Join(root, "does-not-exist"))
	if err != nil || missing != nil {
		t.Fatalf("missing dir = %v, %v; want nil, nil", missing, err)
	}
}
