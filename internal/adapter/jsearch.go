package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mvoronova/skillscan/internal/model"
)

// jsearchResponse is the top-level JSearch /search API response.
type jsearchResponse struct {
	Status string             `json:"status"`
	Data   []model.RawPosting `json:"data"`
}

// JSearchAdapter fetches job postings from the JSearch aggregation API
// (hosted on RapidAPI). One FetchPage call maps to one /search request.
type JSearchAdapter struct {
	baseURL string
	apiKey  string
	apiHost string
	client  *http.Client
}

// NewJSearchAdapter creates an adapter for the JSearch search endpoint.
func NewJSearchAdapter(baseURL, apiKey, apiHost string, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		apiHost: apiHost,
		client:  client,
	}
}

// FetchPage retrieves one page of raw postings for the given query.
// Rate-limit (429) and server errors are returned as *model.HTTPError so the
// retry layer can distinguish transient failures.
func (a *JSearchAdapter) FetchPage(ctx context.Context, q model.Query, page int) ([]model.RawPosting, error) {
	params := url.Values{}
	params.Set("query", q.Role)
	params.Set("country", q.Country)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")

	reqURL := fmt.Sprintf("%s/search?%s", a.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch fetch %q page %d: %w", q.Role, page, err)
	}
	req.Header.Set("X-RapidAPI-Key", a.apiKey)
	req.Header.Set("X-RapidAPI-Host", a.apiHost)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch fetch %q page %d: %w", q.Role, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("jsearch fetch %q page %d", q.Role, page),
		}
	}

	var jr jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("jsearch fetch %q page %d: %w", q.Role, page, err)
	}
	if jr.Status != "" && jr.Status != "OK" {
		return nil, fmt.Errorf("jsearch fetch %q page %d: upstream status %q", q.Role, page, jr.Status)
	}

	return jr.Data, nil
}
