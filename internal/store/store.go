package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/scoutline/scoutline/internal/csvx"
	"github.com/scoutline/scoutline/internal/identity"
)

// Store is one persistent output file plus the active schema. The store is
// the single source of truth for "already processed"; exactly one
// sequential writer may use it at a time.
type Store struct {
	path   string
	schema Schema
}

func New(path string) *Store {
	return &Store{path: path, schema: Current()}
}

func (s *Store) Path() string {
	return s.path
}

// LoadKnownIdentities extracts every (organization, full name) pair from
// the store, whatever schema revision wrote it. A missing file or a
// header-only file yields an empty set. Rows missing either value are
// dropped rather than failing the load.
func (s *Store) LoadKnownIdentities() ([]identity.Identity, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.path, err)
	}

	lines := csvx.Lines(string(b))
	if len(lines) <= 1 {
		return nil, nil
	}

	header := csvx.ParseRow(lines[0])
	orgIdx := columnIndex(header, "company_name")
	nameIdx := columnIndex(header, "full_name")
	if orgIdx < 0 || nameIdx < 0 {
		// Every revision has led with these two columns; fall back to
		// position for stores whose header predates the names.
		orgIdx, nameIdx = 0, 1
	}

	out := make([]identity.Identity, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := csvx.ParseRow(line)
		if orgIdx >= len(row) || nameIdx >= len(row) {
			continue
		}
		org := strings.TrimSpace(row[orgIdx])
		name := strings.TrimSpace(row[nameIdx])
		if org == "" || name == "" {
			continue
		}
		out = append(out, identity.Identity{Organization: org, FullName: name})
	}
	return out, nil
}

// MergeResult reports what a merge changed.
type MergeResult struct {
	// Created is true when the store file did not exist (or held no data
	// rows) before the merge.
	Created  bool
	Existing int
	Added    int
}

// Merge rewrites the store as one operation: the current header, every
// pre-existing row upgraded in place to the current column set, then the
// new records in their processing order. Historical values are carried
// forward untouched.
func (s *Store) Merge(records []Record) (MergeResult, error) {
	var existing [][]string
	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return MergeResult{}, fmt.Errorf("read store %s: %w", s.path, err)
	default:
		lines := csvx.Lines(string(b))
		if len(lines) > 1 {
			oldHeader := csvx.ParseRow(lines[0])
			for _, line := range lines[1:] {
				existing = append(existing, s.schema.Upgrade(oldHeader, csvx.ParseRow(line)))
			}
		}
	}

	out := make([]string, 0, len(existing)+len(records)+1)
	out = append(out, s.schema.HeaderLine())
	quoted := s.schema.quotedFlags()
	for _, row := range existing {
		out = append(out, csvx.SerializeRow(row, quoted))
	}
	for _, rec := range records {
		out = append(out, csvx.SerializeRow(rec.fields(s.schema), quoted))
	}

	if err := s.writeAtomic(strings.Join(out, "\n") + "\n"); err != nil {
		return MergeResult{}, err
	}
	return MergeResult{
		Created:  len(existing) == 0,
		Existing: len(existing),
		Added:    len(records),
	}, nil
}

// Append durably adds one record, creating the file with a header on first
// write. The file is opened and closed per record so an interrupt between
// items never loses a completed row.
func (s *Store) Append(rec Record) (created bool, err error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, err
	}

	info, err := os.Stat(s.path)
	fresh := errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat store %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("open store %s: %w", s.path, err)
	}

	var sb strings.Builder
	if fresh {
		sb.WriteString(s.schema.HeaderLine())
		sb.WriteByte('\n')
	}
	sb.WriteString(csvx.SerializeRow(rec.fields(s.schema), s.schema.quotedFlags()))
	sb.WriteByte('\n')

	if _, err := f.WriteString(sb.String()); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("append to store %s: %w", s.path, err)
	}
	return fresh, f.Close()
}

func (s *Store) writeAtomic(content string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}
