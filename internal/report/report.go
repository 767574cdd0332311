// Package report renders recommendation exports for download.
package report

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"time"

	"arts.org/internal/workflow"
)

// Row is one exported recommendation with its department name resolved.
type Row struct {
	ID             string
	Title          string
	Description    string
	DepartmentName string
	Status         workflow.Status
	CreatedAt      time.Time
}

// Rows resolves department names for a set of recommendations.
func Rows(recs []*workflow.Recommendation, departments []*workflow.Department) []Row {
	names := make(map[string]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	out := make([]Row, 0, len(recs))
	for _, r := range recs {
		name := names[r.DepartmentID]
		if name == "" {
			name = "Unassigned"
		}
		out = append(out, Row{
			ID:             r.ID,
			Title:          r.Title,
			Description:    r.Description,
			DepartmentName: name,
			Status:         r.Status,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out
}

// WriteCSV streams the export as CSV with a header row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "description", "department", "status", "created_at"}); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.Title,
			r.Description,
			r.DepartmentName,
			string(r.Status),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("report: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Audit Recommendations Export</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; font-size: 0.85em; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h1>Audit Recommendations ({{len .Rows}})</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
<table>
<tr><th>Title</th><th>Description</th><th>Department</th><th>Status</th><th>Created</th></tr>
{{range .Rows}}<tr><td>{{.Title}}</td><td>{{.Description}}</td><td>{{.DepartmentName}}</td><td>{{.Status}}</td><td>{{.CreatedAt.Format "2006-01-02"}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// WriteHTML renders the export as a printable HTML table.
func WriteHTML(w io.Writer, rows []Row, now time.Time) error {
	return htmlTmpl.Execute(w, struct {
		Rows        []Row
		GeneratedAt time.Time
	}{Rows: rows, GeneratedAt: now.UTC()})
}
