package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getjobscout/jobscout/internal/jobs"
)

func TestWriteCSV(t *testing.T) {
	days := 2
	p := &jobs.Postings{Items: []*jobs.Posting{
		{
			Title:       "Go Engineer",
			Company:     "Acme, Inc.",
			Location:    "Berlin",
			Source:      jobs.SourceIndeed,
			MatchScore:  87.5,
			MatchReason: "Matches skills like: go, kubernetes",
			PostedDays:  &days,
			URL:         "https://example.com/1",
		},
		{
			Title:   "Backend Developer",
			Company: "Globex",
			URL:     "https://example.com/2",
		},
	}}

	var sb strings.Builder
	if err := WriteCSV(&sb, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "title" || records[0][5] != "match_reason" || records[0][7] != "url" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Acme, Inc." {
		t.Fatalf("comma in company must survive quoting, got %q", records[1][1])
	}
	if records[1][4] != "87.50" {
		t.Fatalf("score formatting wrong: %q", records[1][4])
	}
	if records[1][5] != "Matches skills like: go, kubernetes" {
		t.Fatalf("match reason wrong: %q", records[1][5])
	}
	if records[1][6] != "2" {
		t.Fatalf("posted days wrong: %q", records[1][6])
	}
	if records[2][4] != "0.00" || records[2][5] != "" || records[2][6] != "" {
		t.Fatalf("zero-value row wrong: %v", records[2])
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.csv")
	p := &jobs.Postings{Items: []*jobs.Posting{
		{Title: "Go Engineer", Company: "Acme", URL: "https://example.com/1"},
	}}

	if err := WriteCSVFile(path, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if !strings.HasPrefix(string(data), "title,company,location") {
		t.Fatalf("unexpected file contents: %q", string(data))
	}
}
