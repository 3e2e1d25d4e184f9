package pricenow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pricefeed/internal/auth"
	"pricefeed/internal/config"
	"pricefeed/internal/logger"
)

// maxPages bounds pagination against a misbehaving endpoint. Hitting it
// truncates the result set; the client logs an error but does not abort.
const maxPages = 1000

// APIError is a non-2xx response from the catalog or pricing API that was not
// recovered by the single token refresh.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %d %s - %s", e.StatusCode, e.Path, e.Body)
}

type Client struct {
	baseURL        string
	mainVersion    string
	pricingVersion string
	tokens         auth.TokenProvider
	httpClient     *http.Client
	logger         *logger.Logger
}

func NewClient(cfg *config.Config, tokens auth.TokenProvider, logger *logger.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(cfg.APIBase, "/"),
		mainVersion:    cfg.MainAPIVersion,
		pricingVersion: cfg.PricingAPIVersion,
		tokens:         tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// get issues an authenticated GET. On 401 it refreshes the token once and
// retries once; a second 401 is returned to the caller as-is.
func (c *Client) get(ctx context.Context, path string, params url.Values, apiVersion string) ([]byte, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, err
	}

	body, status, err := c.doGet(ctx, path, params, apiVersion, token)
	if err != nil {
		return nil, 0, err
	}

	if status == http.StatusUnauthorized {
		c.logger.Debug("Got 401 from %s, refreshing token and retrying", path)
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return nil, 0, err
		}
		body, status, err = c.doGet(ctx, path, params, apiVersion, token)
		if err != nil {
			return nil, 0, err
		}
	}

	return body, status, nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values, apiVersion, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("pratiq-api-version", apiVersion)
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// FetchProducts reads the catalog page of product definitions.
func (c *Client) FetchProducts(ctx context.Context) (*CatalogResponse, error) {
	params := url.Values{}
	params.Set("page", "0")
	params.Set("orderBy", "name")
	params.Set("orderDirection", "asc")

	body, status, err := c.get(ctx, "/api/products/admin/", params, c.mainVersion)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Path: "/api/products/admin/", Body: string(body)}
	}

	var catalog CatalogResponse
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return &catalog, nil
}

// FetchPricesPage fetches one page of price change events.
func (c *Client) FetchPricesPage(ctx context.Context, productIDs []int64, dateFrom, dateTo string, page, pageSize int) ([]PriceChange, error) {
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	params := url.Values{}
	params.Set("productDefinitionIds", strings.Join(ids, ","))
	params.Set("from", dateFrom)
	params.Set("to", dateTo)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	// no trailing slash on this path
	body, status, err := c.get(ctx, "/api/pricing/admin/prices", params, c.pricingVersion)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Path: "/api/pricing/admin/prices", Body: string(body)}
	}

	return extractRows(body)
}

// FetchAllPrices drains the pricing endpoint page by page. It stops on an
// empty page, a short page, or the page ceiling.
func (c *Client) FetchAllPrices(ctx context.Context, productIDs []int64, dateFrom, dateTo string, pageSize int) ([]PriceChange, error) {
	var all []PriceChange

	page := 0
	for page < maxPages {
		rows, err := c.FetchPricesPage(ctx, productIDs, dateFrom, dateTo, page, pageSize)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)
		if len(rows) < pageSize {
			break
		}
		page++
	}
	if page >= maxPages {
		c.logger.Error("Pricing pagination hit the %d page ceiling, results are truncated", maxPages)
	}

	c.logger.Debug("Fetched %d price change rows across %d pages", len(all), page+1)
	return all, nil
}

// extractRows accepts a bare list or a wrapper object exposing the list under
// data, items or results, tried in that order. Anything else is an empty page.
func extractRows(payload []byte) ([]PriceChange, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []PriceChange
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode pricing response: %w", err)
		}
		return rows, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode pricing response: %w", err)
	}
	for _, key := range []string{"data", "items", "results"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		var rows []PriceChange
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
	}

	// nothing usable
	return nil, nil
}
