package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Function names one logical endpoint of the query API.
type Function string

const (
	FunctionQuote       Function = "GLOBAL_QUOTE"
	FunctionDailySeries Function = "TIME_SERIES_DAILY"
	FunctionOverview    Function = "OVERVIEW"
	FunctionNews        Function = "NEWS_SENTIMENT"
)

// DefaultNewsLimit is the number of articles requested when no limit is given.
const DefaultNewsLimit = 20

const (
	maxBodyBytes  = 8 << 20
	maxErrorBytes = 2 << 10
)

// quota markers replace the normal result field when the caller is throttled
var quotaMarkers = []string{"Information", "Note"}

// Call performs one request for fn and returns the raw JSON body.
// A payload carrying a quota marker is returned as *RateLimitedError;
// nothing else in the body is inspected.
func (c *Client) Call(ctx context.Context, fn Function, params url.Values) (json.RawMessage, error) {
	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("function", string(fn))
	for key, values := range c.query {
		query[key] = append([]string(nil), values...)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusTooManyRequests:
		return nil, &RateLimitedError{Message: http.StatusText(res.StatusCode)}

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBytes))
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: string(b)}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w", fn, ErrMalformedResponse)
	}
	if msg, ok := quotaMessage(body); ok {
		return nil, &RateLimitedError{Message: msg}
	}
	return json.RawMessage(body), nil
}

// quotaMessage looks for a quota marker in a top-level object.
func quotaMessage(body []byte) (string, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", false
	}
	for _, key := range quotaMarkers {
		raw, ok := top[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		return msg, true
	}
	return "", false
}

// Quote fetches the live quote for ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (json.RawMessage, error) {
	return c.Call(ctx, FunctionQuote, url.Values{"symbol": {ticker}})
}

// DailySeries fetches the compact daily history for ticker.
func (c *Client) DailySeries(ctx context.Context, ticker string) (json.RawMessage, error) {
	return c.Call(ctx, FunctionDailySeries, url.Values{
		"symbol":     {ticker},
		"outputsize": {"compact"},
	})
}

// Overview fetches company fundamentals for ticker.
func (c *Client) Overview(ctx context.Context, ticker string) (json.RawMessage, error) {
	return c.Call(ctx, FunctionOverview, url.Values{"symbol": {ticker}})
}

// News fetches the sentiment news feed. Without a ticker it falls back to
// general market headlines.
func (c *Client) News(ctx context.Context, ticker string, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	if ticker != "" {
		params.Set("tickers", ticker)
	} else {
		params.Set("topics", "financial_markets")
	}
	return c.Call(ctx, FunctionNews, params)
}
