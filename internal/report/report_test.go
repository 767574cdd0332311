package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"arts.org/internal/workflow"
)

func sampleData() ([]*workflow.Recommendation, []*workflow.Department) {
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	recs := []*workflow.Recommendation{
		{
			ID:           "rec-1",
			Title:        `Controls, "critical"`,
			Description:  "Multi\nline note",
			Status:       workflow.StatusRed,
			DepartmentID: "dep-1",
			CreatedAt:    created,
		},
		{
			ID:           "rec-2",
			Title:        "Orphaned finding",
			Status:       workflow.StatusGreen,
			DepartmentID: "dep-gone",
			CreatedAt:    created,
		},
	}
	deps := []*workflow.Department{{ID: "dep-1", Name: "Finance"}}
	return recs, deps
}

func TestWriteCSV(t *testing.T) {
	recs, deps := sampleData()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Rows(recs, deps)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	header := strings.Join(records[0], ",")
	if header != "id,title,description,department,status,created_at" {
		t.Fatalf("unexpected header: %q", header)
	}
	if records[1][1] != `Controls, "critical"` {
		t.Fatalf("quoting not round-tripped: %q", records[1][1])
	}
	if records[1][3] != "Finance" {
		t.Fatalf("department not resolved: %q", records[1][3])
	}
	if records[2][3] != "Unassigned" {
		t.Fatalf("missing department should read Unassigned, got %q", records[2][3])
	}
	if records[1][5] != "2026-03-14T10:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", records[1][5])
	}
}

func TestWriteHTML(t *testing.T) {
	recs, deps := sampleData()
	var buf bytes.Buffer
	now := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	if err := WriteHTML(&buf, Rows(recs, deps), now); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Audit Recommendations (2)") {
		t.Fatalf("missing heading: %s", out)
	}
	if !strings.Contains(out, "Finance") || !strings.Contains(out, "Unassigned") {
		t.Fatal("department names missing from table")
	}
	// Title content must be escaped, not injected.
	if !strings.Contains(out, "Controls, &#34;critical&#34;") {
		t.Fatalf("expected escaped title, got: %s", out)
	}
}
