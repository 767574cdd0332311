package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                 "/",
		"/metrics":                         "/metrics",
		"/v1/recommendations":              "/v1/recommendations",
		"/v1/recommendations/abc":          "/v1/recommendations/:id",
		"/v1/recommendations/abc/status":   "/v1/recommendations/:id/status",
		"/v1/plans/abc/toggle":             "/v1/plans/:id/toggle",
		"/v1/evidence/abc/review":          "/v1/evidence/:id/review",
		"/v1/reports/export?format=csv":    "/v1/reports/export",
		"/v1/tasks":                        "/v1/tasks",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
