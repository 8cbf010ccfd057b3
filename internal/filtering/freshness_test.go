package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/jobs"
)

func TestInferPostedDays(t *testing.T) {
	cases := []struct {
		text string
		days int
		ok   bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"Posted today", 0, true},
		{"Just Posted", 0, true},
		{"Posted 5 days ago", 5, true},
		{"1 day ago", 1, true},
		{"posted 12  days ago", 12, true},
		{"full daytime availability", 0, false},
		{"we ship great software", 0, false},
	}
	for _, tc := range cases {
		days, ok := InferPostedDays(tc.text)
		if ok != tc.ok || days != tc.days {
			t.Errorf("InferPostedDays(%q) = (%d, %v), want (%d, %v)",
				tc.text, days, ok, tc.days, tc.ok)
		}
	}
}

func TestFreshnessDropsStale(t *testing.T) {
	filter := NewFreshness(3, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "stale", Description: "Posted 5 days ago", URL: "u1"},
		{Title: "fresh", Description: "Just posted", URL: "u2"},
		{Title: "edge", PostedHint: "3 days ago", URL: "u3"},
	}}

	out, step, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("expected 2 postings left, got %d", out.Len())
	}
	if out.Items[0].URL != "u2" || out.Items[1].URL != "u3" {
		t.Fatalf("wrong survivors: %+v", out.Items)
	}
	if step.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", step.Dropped)
	}
}

func TestFreshnessUnknownAgePasses(t *testing.T) {
	filter := NewFreshness(3, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "no signal", Description: "we build things", URL: "u1"},
	}}

	out, _, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("posting without a recency signal must pass")
	}
	if out.Items[0].PostedDays != nil {
		t.Fatalf("PostedDays must stay nil without a signal")
	}
}

func TestFreshnessPrefersHintOverDescription(t *testing.T) {
	filter := NewFreshness(3, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "hinted", PostedHint: "today", Description: "founded 10 days ago", URL: "u1"},
	}}

	out, _, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("hint says today, posting must survive")
	}
	if out.Items[0].PostedDays == nil || *out.Items[0].PostedDays != 0 {
		t.Fatalf("expected PostedDays 0 from the hint")
	}
}
