// Package jobs looks up live vacancies for a job role on the HeadHunter
// public API.
package jobs

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://api.hh.ru"
	DefaultLimit  = 10

	userAgent = "resume-studio/job-search"
	// Max value for search per page.
	maxPerPage = 100
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a client. The token is optional, vacancy search is public.
func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Search returns at most limit vacancies matching params.
func (c *Client) Search(ctx context.Context, params SearchParams, limit int) (*Vacancies, error) {
	if strings.TrimSpace(params.Text) == "" {
		return nil, fmt.Errorf("search text is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return c.search(ctx, params, limit)
}
