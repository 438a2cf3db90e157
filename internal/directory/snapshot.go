package directory

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/scoutline/scoutline/internal/csvx"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Slug turns an organization name into a filesystem-safe directory prefix.
func Slug(organization string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(organization), "-")
}

var snapshotHeader = []string{
	"person_id",
	"company_name",
	"full_name",
	"country",
	"email",
	"mobile",
	"linkedin_url",
	"current_job_title",
}

// Job titles are free text; everything else in a snapshot is structural.
var snapshotQuoted = []bool{false, false, false, false, false, false, false, true}

// SnapshotWriter writes per-organization candidate snapshots under the data
// directory, one directory per (organization, run start time).
type SnapshotWriter struct {
	dir      string
	runStamp string
}

func NewSnapshotWriter(dir string, runStart time.Time) *SnapshotWriter {
	return &SnapshotWriter{
		dir:      dir,
		runStamp: runStart.UTC().Format("2006-01-02T15-04-05"),
	}
}

// Write persists candidates as <dir>/<org-slug>-<runStamp>/persons.csv and
// returns the file path.
func (w *SnapshotWriter) Write(organization string, candidates []Candidate) (string, error) {
	target := filepath.Join(w.dir, Slug(organization)+"-"+w.runStamp)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(candidates)+1)
	lines = append(lines, csvx.SerializeRow(snapshotHeader, nil))
	for _, c := range candidates {
		lines = append(lines, csvx.SerializeRow([]string{
			c.PersonID,
			c.CompanyName,
			c.FullName,
			c.Country,
			c.Email,
			c.Mobile,
			c.LinkedInURL,
			c.JobTitle,
		}, snapshotQuoted))
	}

	path := filepath.Join(target, "persons.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
