package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks the ledger directory and discovers every *.jsonl file.
// A missing directory yields no files and no error.
func ScanDir(ledgerDir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(ledgerDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(ledgerDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != ledgerDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}

		rel, _ := filepath.Rel(ledgerDir, path)
		parts := strings.Split(rel, string(filepath.Separator))
		account := strings.TrimSuffix(parts[len(parts)-1], ".jsonl")
		if len(parts) > 1 {
			account = parts[0]
		}

		files = append(files, DiscoveredFile{Path: path, Account: account})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// CountAccounts returns the number of distinct accounts.
func CountAccounts(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Account] = struct{}{}
	}
	return len(seen)
}
