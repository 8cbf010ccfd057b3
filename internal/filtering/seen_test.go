package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/jobs"
	"github.com/getjobscout/jobscout/internal/seenstore"
)

func TestSeenDropsKnownFingerprints(t *testing.T) {
	known := &jobs.Posting{Title: "Go Engineer", Company: "Acme", Location: "Remote", URL: "u1"}
	fresh := &jobs.Posting{Title: "Rust Engineer", Company: "Acme", Location: "Remote", URL: "u2"}

	set := seenstore.NewSet()
	set.Add(known.ComputeFingerprint())

	filter := NewSeen(set, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{known, fresh}}

	out, step, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Items[0].URL != "u2" {
		t.Fatalf("expected only the unseen posting, got %+v", out.Items)
	}
	if step.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", step.Dropped)
	}
}

func TestSeenCollapsesInBatchDuplicates(t *testing.T) {
	first := &jobs.Posting{Title: "Go Engineer", Company: "Acme", Location: "Remote", URL: "u1"}
	dup := &jobs.Posting{Title: "go engineer", Company: "ACME", Location: " remote ", URL: "u2"}
	other := &jobs.Posting{Title: "Go Engineer", Company: "Acme", Location: "Berlin", URL: "u3"}

	filter := NewSeen(seenstore.NewSet(), zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{first, dup, other}}

	out, step, err := filter.Apply(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("expected duplicate collapsed to first occurrence, got %d left", out.Len())
	}
	if out.Items[0].URL != "u1" || out.Items[1].URL != "u3" {
		t.Fatalf("first occurrence must survive, got %+v", out.Items)
	}
	if step.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", step.Dropped)
	}
}

func TestSeenDisabled(t *testing.T) {
	set := seenstore.NewSet()
	set.Add("deadbeef")

	filter := NewSeen(set, zap.NewNop())
	filter.Disable("forced by flag")
	if filter.IsEnabled() {
		t.Fatalf("filter must report disabled")
	}

	run := New([]Filter{filter}, zap.NewNop())
	p := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "Go Engineer", Company: "Acme", Location: "Remote", URL: "u1"},
	}}
	out, err := run.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("disabled filter must not drop anything")
	}
}

func TestRunChainOrder(t *testing.T) {
	// Experience runs before seen: a senior duplicate is counted as dropped
	// by the experience step, not the dedup step.
	seniorA := &jobs.Posting{Title: "Senior Go Engineer", Company: "Acme", Location: "Remote", URL: "u1"}
	seniorB := &jobs.Posting{Title: "Senior Go Engineer", Company: "Acme", Location: "Remote", URL: "u2"}
	junior := &jobs.Posting{Title: "Junior Developer", Company: "Acme", Location: "Remote", URL: "u3"}

	run := New([]Filter{
		NewExperience(LevelSenior, nil, zap.NewNop()),
		NewSeen(seenstore.NewSet(), zap.NewNop()),
	}, zap.NewNop())

	p := &jobs.Postings{Items: []*jobs.Posting{seniorA, junior, seniorB}}
	out, err := run.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || out.Items[0].URL != "u1" {
		t.Fatalf("expected the first senior posting only, got %+v", out.Items)
	}
}
