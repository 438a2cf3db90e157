package store_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scoutline/scoutline/internal/csvx"
	"github.com/scoutline/scoutline/internal/store"
)

const legacyV1 = "company_name,full_name,country,email,mobile,linkedin_url,current_job_title\n" +
	"Acme Corp,Jane Roe,Mexico,jane@acme.test,+52 55 0000,https://linkedin.com/in/janeroe,CEO\n" +
	`Globex,"Smith, Sam",,sam@globex.test,,https://linkedin.com/in/samsmith,"VP, Operations"` + "\n"

func writeStore(t *testing.T, content string) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filtered.csv")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return store.New(path)
}

func TestLoadKnownIdentities(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		ids, err := writeStore(t, "").LoadKnownIdentities()
		if err != nil || len(ids) != 0 {
			t.Fatalf("want empty, got %v, %v", ids, err)
		}
	})

	t.Run("header-only file is empty", func(t *testing.T) {
		ids, err := writeStore(t, "company_name,full_name\n").LoadKnownIdentities()
		if err != nil || len(ids) != 0 {
			t.Fatalf("want empty, got %v, %v", ids, err)
		}
	})

	t.Run("reads any legacy layout", func(t *testing.T) {
		ids, err := writeStore(t, legacyV1).LoadKnownIdentities()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("expected 2 identities, got %d", len(ids))
		}
		if ids[0].Organization != "Acme Corp" || ids[0].FullName != "Jane Roe" {
			t.Fatalf("unexpected identity: %#v", ids[0])
		}
		if ids[1].FullName != "Smith, Sam" {
			t.Fatalf("quoted name mishandled: %#v", ids[1])
		}
	})

	t.Run("drops rows missing values", func(t *testing.T) {
		ids, err := writeStore(t, "company_name,full_name\nAcme,\nGlobex,Sam Spade\n").LoadKnownIdentities()
		if err != nil || len(ids) != 1 || ids[0].Organization != "Globex" {
			t.Fatalf("want only the complete row, got %v, %v", ids, err)
		}
	})
}

func TestMergeUpgradesLegacyRows(t *testing.T) {
	s := writeStore(t, legacyV1)

	res, err := s.Merge([]store.Record{{
		CompanyName: "Initech",
		FullName:    "Bill Lumbergh",
		Position:    "VP",
		Message:     `Hi Bill. I saw the "TPS report" initiative, twice.`,
	}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Created || res.Existing != 2 || res.Added != 1 {
		t.Fatalf("unexpected result: %#v", res)
	}

	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := csvx.Lines(string(b))
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}

	header := csvx.ParseRow(lines[0])
	want := []string{"company_name", "full_name", "position", "country", "email", "mobile", "linkedin_url", "current_job_title", "message"}
	if len(header) != len(want) {
		t.Fatalf("unexpected header: %v", header)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	// Legacy rows keep their values, padded at the new positions.
	row := csvx.ParseRow(lines[1])
	if row[0] != "Acme Corp" || row[1] != "Jane Roe" || row[2] != "" || row[3] != "Mexico" || row[7] != "CEO" || row[8] != "" {
		t.Fatalf("legacy row not upgraded in place: %v", row)
	}
	row = csvx.ParseRow(lines[2])
	if row[1] != "Smith, Sam" || row[7] != "VP, Operations" {
		t.Fatalf("quoted legacy values lost: %v", row)
	}

	// New row appended after all pre-existing rows.
	row = csvx.ParseRow(lines[3])
	if row[0] != "Initech" || row[2] != "VP" || row[8] != `Hi Bill. I saw the "TPS report" initiative, twice.` {
		t.Fatalf("new row mangled: %v", row)
	}
}

func TestMergeRowCountProperty(t *testing.T) {
	s := writeStore(t, legacyV1)

	recs := []store.Record{
		{CompanyName: "A", FullName: "One Person"},
		{CompanyName: "B", FullName: "Two Person"},
	}
	if _, err := s.Merge(recs); err != nil {
		t.Fatal(err)
	}
	// A second merge over the already-upgraded store must still preserve
	// every row.
	if _, err := s.Merge([]store.Record{{CompanyName: "C", FullName: "Three Person"}}); err != nil {
		t.Fatal(err)
	}

	ids, err := s.LoadKnownIdentities()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 5 {
		t.Fatalf("expected 2 legacy + 3 merged rows, got %d", len(ids))
	}
}

func TestMergeMessageWithNewlineStaysOneRow(t *testing.T) {
	s := writeStore(t, "")

	res, err := s.Merge([]store.Record{{
		CompanyName: "Acme Corp",
		FullName:    "Jane Roe",
		Message:     "Hi Jane.\nSecond line.",
	}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Added != 1 {
		t.Fatalf("unexpected result: %#v", res)
	}

	ids, err := s.LoadKnownIdentities()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("record split across rows: %#v", ids)
	}

	// A later merge must see exactly the one existing row and keep the
	// message intact.
	res, err = s.Merge([]store.Record{{CompanyName: "Globex", FullName: "Sam Spade"}})
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if res.Existing != 1 || res.Added != 1 {
		t.Fatalf("unexpected result: %#v", res)
	}

	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := csvx.Lines(string(b))
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if got := csvx.ParseRow(lines[1])[8]; got != "Hi Jane. Second line." {
		t.Fatalf("message not preserved: %q", got)
	}
}

func TestMergeCreatesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "filtered.csv")
	s := store.New(path)
	res, err := s.Merge([]store.Record{{CompanyName: "Acme", FullName: "Jane Roe"}})
	if err != nil {
		t.Fatalf("merge into missing directory: %v", err)
	}
	if !res.Created || res.Added != 1 {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "messages.csv")
	s := store.New(path)

	created, err := s.Append(store.Record{CompanyName: "Acme", FullName: "Jane Roe", Message: "Hi Jane."})
	if err != nil {
		t.Fatalf("first append: %v", err)
	}
	if !created {
		t.Fatalf("first append should create the store")
	}

	created, err = s.Append(store.Record{CompanyName: "Globex", FullName: "Sam Spade", Message: "Hi Sam."})
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if created {
		t.Fatalf("second append should not re-create the store")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := csvx.Lines(string(b))
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "company_name,full_name") {
		t.Fatalf("missing header: %q", lines[0])
	}
	if csvx.ParseRow(lines[2])[0] != "Globex" {
		t.Fatalf("rows out of order: %q", lines[2])
	}
}
