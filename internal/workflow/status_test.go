package workflow

import (
	"errors"
	"testing"
)

func TestParseStatusCanonicalizes(t *testing.T) {
	cases := map[string]Status{
		"green":  StatusGreen,
		"YELLOW": StatusYellow,
		" Red ":  StatusRed,
		"purple": StatusPurple,
		"Blue":   StatusBlue,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q)=%q, want %q", raw, got, want)
		}
	}
	if _, err := ParseStatus("orange"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParsePlanStatus(t *testing.T) {
	for _, raw := range []string{"pending", "in_progress", "completed"} {
		if _, err := ParsePlanStatus(raw); err != nil {
			t.Fatalf("ParsePlanStatus(%q): %v", raw, err)
		}
	}
	if _, err := ParsePlanStatus("done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseReviewDecision(t *testing.T) {
	if _, err := ParseReviewDecision("approved"); err != nil {
		t.Fatalf("approved: %v", err)
	}
	if _, err := ParseReviewDecision("REJECTED"); err != nil {
		t.Fatalf("rejected: %v", err)
	}
	// Submitted is a starting state, never a decision.
	if _, err := ParseReviewDecision("submitted"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
