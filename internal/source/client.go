package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/getjobscout/jobscout/internal/jobs"
)

const contentType = "application/json"

// Client fetches postings from a jobspy-style aggregator over HTTP.
type Client struct {
	HTTPClient *http.Client
	Endpoint   string

	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates an aggregator client. requestsPerMin of zero disables
// client-side rate limiting.
func NewClient(endpoint string, timeout time.Duration, requestsPerMin int, log *zap.Logger) *Client {
	var limiter *rate.Limiter
	if requestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), 1)
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		Endpoint:   endpoint,
		limiter:    limiter,
		logger:     log,
	}
}

func (c *Client) Name() string { return "aggregator" }

type searchResponse struct {
	Jobs []any `json:"jobs"`
}

// Fetch runs one aggregator search and decodes the result items.
func (c *Client) Fetch(ctx context.Context, q Query) (*jobs.Postings, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if q.Country == "" {
		q.Country = InferCountry(q.Location)
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding search query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("make request",
		zap.String("url", c.Endpoint),
		zap.String("role", q.Role),
		zap.String("location", q.Location),
		zap.String("country", q.Country),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	var postings []*jobs.Posting
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &postings,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Jobs); err != nil {
		return nil, fmt.Errorf("decoding postings: %w", err)
	}

	c.logger.Debug("got response from aggregator", zap.Int("postings", len(postings)))

	return &jobs.Postings{Items: postings}, nil
}
