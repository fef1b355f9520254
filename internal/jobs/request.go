package jobs

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

type itemResponse struct {
	Items   []item
	Found   int
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

type item any

// getItems makes GET requests to the API and collects items page by page
// until limit items are gathered or the pages run out.
func (c *Client) getItems(ctx context.Context, url string, q url.Values, limit int) ([]item, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.URL.RawQuery = q.Encode()

	response, err := c.fetch(req)
	if err != nil {
		return nil, 0, err
	}

	c.logger.Debug("got response from hh.ru",
		zap.Int("found", response.Found),
		zap.Int("pages", response.Pages),
		zap.Int("per_page", response.PerPage),
	)

	items := response.Items
	for len(items) < limit && response.Page < response.Pages-1 {
		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", response.Page+1, response.Pages),
		))

		response, err = c.fetch(addPage(req, response.Page+1))
		if err != nil {
			return nil, 0, err
		}
		if len(response.Items) == 0 {
			break
		}
		items = append(items, response.Items...)
	}

	if len(items) > limit {
		items = items[:limit]
	}
	return items, response.Found, nil
}

func (c *Client) fetch(req *http.Request) (*itemResponse, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request vacancies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response itemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode vacancies: %w", err)
	}
	return &response, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// addPage sets the page parameter of the request URL.
func addPage(req *http.Request, page int) *http.Request {
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	return req
}
