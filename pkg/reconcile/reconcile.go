// Package reconcile merges a declarative key=value file into an existing
// application configuration file. Reconciliation is last-writer-wins and
// idempotent: after a pass, every declared key appears exactly once, in
// declaration order, with all stale assignments (commented or not) erased.
// Keys not mentioned in the declaration are left untouched.
package reconcile

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Pair is a declared key assignment.
type Pair struct {
	Key   string
	Value string
}

// Apply reconciles the declaration file into the target config file.
// Returns the number of applied pairs.
func Apply(declarationPath, targetPath string) (int, error) {
	pairs, err := LoadDeclaration(declarationPath)
	if err != nil {
		return 0, err
	}
	return ApplyPairs(targetPath, pairs)
}

// ApplyPairs reconciles already-loaded pairs into the target config file.
// The target is first shadow-copied verbatim to target+".bak" (overwritten
// on every run; distinct from the timestamped backup sets).
func ApplyPairs(targetPath string, pairs []Pair) (int, error) {
	target, err := os.ReadFile(targetPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read target config %s: %w", targetPath, err)
	}

	bakPath := targetPath + ".bak"
	if err := os.WriteFile(bakPath, target, 0644); err != nil {
		return 0, fmt.Errorf("failed to write shadow copy %s: %w", bakPath, err)
	}

	merged := Merge(string(target), pairs)
	if err := os.WriteFile(targetPath, []byte(merged), 0644); err != nil {
		return 0, fmt.Errorf("failed to write target config %s: %w", targetPath, err)
	}

	log.Info().
		Str("target", targetPath).
		Int("applied", len(pairs)).
		Msg("Configuration reconciled")

	return len(pairs), nil
}

// LoadDeclaration reads the declared (key, value) pairs in file order.
// Lines with empty keys or a leading comment marker are skipped entirely:
// they are neither applied nor erased from the target.
func LoadDeclaration(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration %s: %w", path, err)
	}

	var pairs []Pair
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: strings.TrimSpace(value)})
	}
	return pairs, nil
}

// Merge applies declared pairs to the target content in declaration order.
// For each pair, every existing assignment of the key is removed, commented
// out or not, and a fresh key=value line is appended at the end.
func Merge(target string, pairs []Pair) string {
	lines := strings.Split(strings.TrimRight(target, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	for _, p := range pairs {
		kept := lines[:0:0]
		for _, line := range lines {
			if !assignsKey(line, p.Key) {
				kept = append(kept, line)
			}
		}
		lines = append(kept, p.Key+"="+p.Value)
	}

	return strings.Join(lines, "\n") + "\n"
}

// assignsKey reports whether the line is an assignment of key, ignoring any
// leading comment markers and whitespace.
func assignsKey(line, key string) bool {
	s := strings.TrimSpace(line)
	for strings.HasPrefix(s, "#") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	}
	if !strings.HasPrefix(s, key) {
		return false
	}
	rest := strings.TrimSpace(s[len(key):])
	return strings.HasPrefix(rest, "=")
}
