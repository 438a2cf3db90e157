// Package input reads the batch input lists: one organization name per
// line, or (organization, full name, optional position) rows. The first
// line of each file is a header and is ignored.
package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/scoutline/scoutline/internal/csvx"
)

// ReadCompanies returns organization names from the first column.
func ReadCompanies(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range lines {
		row := csvx.ParseRow(line)
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// Person is one row of the person-mode input list.
type Person struct {
	CompanyName string
	FullName    string
	Position    string
}

// ReadPersons returns person rows. Rows without both an organization and a
// name are skipped.
func ReadPersons(path string) ([]Person, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var out []Person
	for _, line := range lines {
		row := csvx.ParseRow(line)
		if len(row) < 2 {
			continue
		}
		p := Person{
			CompanyName: strings.TrimSpace(row[0]),
			FullName:    strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			p.Position = strings.TrimSpace(row[2])
		}
		if p.CompanyName == "" || p.FullName == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// readLines returns the file's non-blank lines with the header dropped.
func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input list: %w", err)
	}
	lines := csvx.Lines(string(b))
	if len(lines) <= 1 {
		return nil, nil
	}
	return lines[1:], nil
}
