// Package store persists completed pipeline outcomes as an append-growing
// CSV file. The header row is the schema declaration: stores written by
// older revisions carry fewer columns, and the reconciler upgrades their
// rows by header column name when merging, never by guessing from counts.
package store

import (
	"strings"

	"github.com/scoutline/scoutline/internal/csvx"
)

// Column is one declared store column.
type Column struct {
	Name string
	// Quoted forces quoting on write. Free-text columns are always quoted
	// so commas in titles and messages never shift later fields.
	Quoted bool
}

// Schema is the ordered column set declared by a store's header row.
type Schema struct {
	Columns []Column
}

// Current returns the active schema. New columns are only ever appended or
// inserted at a fixed position; existing columns are never reordered.
func Current() Schema {
	return Schema{Columns: []Column{
		{Name: "company_name"},
		{Name: "full_name"},
		{Name: "position", Quoted: true},
		{Name: "country"},
		{Name: "email"},
		{Name: "mobile"},
		{Name: "linkedin_url"},
		{Name: "current_job_title", Quoted: true},
		{Name: "message", Quoted: true},
	}}
}

func (s Schema) names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

func (s Schema) quotedFlags() []bool {
	out := make([]bool, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Quoted
	}
	return out
}

// HeaderLine renders the header row.
func (s Schema) HeaderLine() string {
	return csvx.SerializeRow(s.names(), nil)
}

func (s Schema) indexOf(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Upgrade maps a row written under oldHeader into this schema's column
// order. Columns the old layout lacked become empty values at the position
// the current header declares; values are never reordered relative to each
// other. A row already carrying every current column passes through
// unchanged.
func (s Schema) Upgrade(oldHeader []string, row []string) []string {
	out := make([]string, len(s.Columns))
	for i, name := range oldHeader {
		j := s.indexOf(name)
		if j < 0 || i >= len(row) {
			continue
		}
		out[j] = row[i]
	}
	return out
}

// Record is one persisted (organization, person) outcome.
type Record struct {
	CompanyName string
	FullName    string
	Position    string
	Country     string
	Email       string
	Mobile      string
	LinkedInURL string
	JobTitle    string
	Message     string
}

func (r Record) fields(s Schema) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		switch c.Name {
		case "company_name":
			out[i] = r.CompanyName
		case "full_name":
			out[i] = r.FullName
		case "position":
			out[i] = r.Position
		case "country":
			out[i] = r.Country
		case "email":
			out[i] = r.Email
		case "mobile":
			out[i] = r.Mobile
		case "linkedin_url":
			out[i] = r.LinkedInURL
		case "current_job_title":
			out[i] = r.JobTitle
		case "message":
			out[i] = r.Message
		}
	}
	return out
}
