// Package export renders ranked postings for consumption outside the cli.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/getjobscout/jobscout/internal/jobs"
)

var csvHeader = []string{"title", "company", "location", "site", "match_score", "match_reason", "posted_days_ago", "url"}

// WriteCSV writes the postings, one row each, in their current order.
func WriteCSV(w io.Writer, p *jobs.Postings) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, posting := range p.Items {
		postedDays := ""
		if posting.PostedDays != nil {
			postedDays = strconv.Itoa(*posting.PostedDays)
		}

		row := []string{
			posting.Title,
			posting.Company,
			posting.Location,
			posting.Source,
			strconv.FormatFloat(posting.MatchScore, 'f', 2, 64),
			posting.MatchReason,
			postedDays,
			posting.URL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the postings to path, creating or truncating it.
func WriteCSVFile(path string, p *jobs.Postings) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}

	if err := WriteCSV(file, p); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
