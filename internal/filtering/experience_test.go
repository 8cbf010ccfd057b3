package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/jobs"
)

func samplePostings() *jobs.Postings {
	return &jobs.Postings{Items: []*jobs.Posting{
		{Title: "Software Engineering Intern", Description: "summer internship", URL: "u1"},
		{Title: "Senior Go Engineer", Description: "ship services", URL: "u2"},
		{Title: "Backend Developer", Description: "3+ years of Go", URL: "u3"},
	}}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":           LevelAll,
		"All":        LevelAll,
		" senior ":   LevelSenior,
		"INTERNSHIP": LevelInternship,
		"entry":      LevelEntry,
		"mid":        LevelMid,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseLevel("wizard"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestExperienceAllIsIdentity(t *testing.T) {
	filter := NewExperience(LevelAll, nil, zap.NewNop())
	p := samplePostings()

	out, step, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 0 || out.Len() != 3 {
		t.Fatalf("expected identity transform, got %+v", step)
	}
	if out.Items[0].URL != "u1" || out.Items[2].URL != "u3" {
		t.Fatalf("order not preserved")
	}
}

func TestExperienceSeniorKeepsMatch(t *testing.T) {
	filter := NewExperience(LevelSenior, nil, zap.NewNop())
	p := samplePostings()

	out, step, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Items[0].URL != "u2" {
		t.Fatalf("expected only the senior posting, got %+v", out.Items)
	}
	if step.Initial != 3 || step.Dropped != 2 || step.Left != 1 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestExperienceMidMatchesDescription(t *testing.T) {
	filter := NewExperience(LevelMid, nil, zap.NewNop())
	p := samplePostings()

	out, _, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "3+" appears only in the third posting's description.
	if out.Len() != 1 || out.Items[0].URL != "u3" {
		t.Fatalf("expected the 3+ posting, got %+v", out.Items)
	}
}

func TestExperienceMatchesNormalizedTextOnly(t *testing.T) {
	filter := NewExperience(LevelSenior, nil, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{
		// "lead" appears only inside a class attribute, never in the text.
		{Title: "Marketing Manager", Description: `<div class="lead-section">Own the newsletter calendar.</div>`, URL: "u1"},
		{Title: "Staff Engineer", Description: "<p>Own the platform.</p>", URL: "u2"},
	}}

	out, _, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Items[0].URL != "u2" {
		t.Fatalf("keyword inside markup must not retain a posting, got %+v", out.Items)
	}
}

func TestExperienceMatchesAcrossMarkupBreaks(t *testing.T) {
	overrides := map[Level][]string{LevelSenior: {"principal engineer"}}
	filter := NewExperience(LevelSenior, overrides, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "Engineer", Description: "<b>Principal</b>\nengineer wanted", URL: "u1"},
	}}

	out, _, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("multi-word keyword split by markup must still match after normalization")
	}
}

func TestExperienceKeywordOverride(t *testing.T) {
	overrides := map[Level][]string{LevelSenior: {"go engineer"}}
	filter := NewExperience(LevelSenior, overrides, zap.NewNop())
	p := samplePostings()

	out, _, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Items[0].URL != "u2" {
		t.Fatalf("expected the overridden keyword to match, got %+v", out.Items)
	}
}
