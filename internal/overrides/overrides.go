// Package overrides loads the user's security identity override list.
//
// The file is plain UTF-8 text, one `identifier=value` pair per line. Blank
// lines and lines starting with # are ignored; anything else that does not
// split into exactly two non-empty parts around a single = is skipped, not
// fatal. When a later line repeats an identifier, the last write wins.
package overrides

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Kind distinguishes the two override behaviors.
type Kind int

const (
	// KindManual marks an identifier as manually resolved: a synthetic
	// security is fabricated for it and the external lookup is never called.
	KindManual Kind = iota
	// KindReplace maps an identifier to a replacement lookup key passed to
	// the external lookup instead of the identifier itself.
	KindReplace
)

// Entry is one override: either a manual marker or a replacement key.
type Entry struct {
	Kind           Kind
	ReplacementKey string // set only for KindReplace
}

// Table is the immutable identifier -> override mapping. It is built once
// before row processing and only read afterwards, so a plain map is safe.
type Table map[string]Entry

// Lookup returns the override for an identifier, if any
func (t Table) Lookup(identifier string) (Entry, bool) {
	e, ok := t[identifier]
	return e, ok
}

// Load reads an override file from disk. A missing file is not an error:
// the override list is optional and an empty table is returned.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("failed to open override file %s: %w", path, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file %s: %w", path, err)
	}
	return table, nil
}

// Parse reads override lines from r. Ambiguous lines (wrong part count,
// empty identifier or value) are skipped so a stray edit cannot block a
// whole conversion run.
func Parse(r io.Reader) (Table, error) {
	table := Table{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			continue
		}
		identifier := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if identifier == "" || value == "" {
			continue
		}

		if identifier == value {
			table[identifier] = Entry{Kind: KindManual}
		} else {
			table[identifier] = Entry{Kind: KindReplace, ReplacementKey: value}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan override lines: %w", err)
	}

	return table, nil
}
