// Package source talks to the job board aggregator that scrapes postings
// from multiple boards behind a single search endpoint.
package source

import (
	"context"
	"strings"

	"github.com/getjobscout/jobscout/internal/jobs"
)

// Query describes a single aggregator search.
type Query struct {
	Role     string `json:"search_term"`
	Location string `json:"location"`
	Results  int    `json:"results_wanted"`
	HoursOld int    `json:"hours_old"`
	Country  string `json:"country_indeed"`
}

// Fetcher retrieves postings matching a query.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, q Query) (*jobs.Postings, error)
}

// Indeed needs its own country parameter. Inferred from the location string
// when the config does not pin one.
var countryByLocation = map[string]string{
	"india":          "India",
	"canada":         "Canada",
	"uk":             "UK",
	"united kingdom": "UK",
	"australia":      "Australia",
	"germany":        "Germany",
	"france":         "France",
	"singapore":      "Singapore",
}

// InferCountry maps a free-form location to the aggregator country value.
// Unrecognized locations default to USA.
func InferCountry(location string) string {
	loc := strings.ToLower(location)
	for needle, country := range countryByLocation {
		if strings.Contains(loc, needle) {
			return country
		}
	}
	return "USA"
}
