package alphavantage_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"marketterminal/internal/alphavantage"
)

// respond builds a canned response with the given status and body.
func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	// Assert: a valid key should return a client.
	client, err := alphavantage.NewClient("test")
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Parallel()

	// Assert: an empty key is rejected.
	client, err := alphavantage.NewClient("")
	require.ErrorIs(t, err, alphavantage.ErrMissingAPIKey)
	require.Nil(t, client)
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080/query"

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			return respond(http.StatusOK, `{}`), nil
		}).
		Times(1)

	// Arrange: create a new client.
	client, err := alphavantage.NewClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithBaseURL(baseURL))
	require.NoError(t, err)

	// Act: call Quote with the overridden base URL.
	_, err = client.Quote(t.Context(), "AAPL")
	require.NoError(t, err)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method to check the header
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "bar", req.Header.Get("foo"))
			return respond(http.StatusOK, `{}`), nil
		}).
		Times(1)

	// Arrange: create a new client with a custom header.
	client, err := alphavantage.NewClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithHeader(http.Header{
		"foo": []string{"bar"},
	}))
	require.NoError(t, err)

	// Act: call Overview with the custom header.
	_, err = client.Overview(t.Context(), "AAPL")
	require.NoError(t, err)
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client that blocks until the request context ends
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}).
		Times(1)

	// Arrange: create a client with a short timeout
	client, err := alphavantage.NewClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	// Act: call Quote
	raw, err := client.Quote(t.Context(), "AAPL")

	// Assert: the timeout surfaces as a network error
	var netErr *alphavantage.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Nil(t, raw)
}

func TestCall_AppendsCredentialAndParams(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			q := req.URL.Query()
			require.Equal(t, "test-key", q.Get("apikey"))
			require.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
			require.Equal(t, "MSFT", q.Get("symbol"))
			require.Equal(t, "compact", q.Get("outputsize"))
			return respond(http.StatusOK, `{"Time Series (Daily)": {}}`), nil
		}).
		Times(1)

	// Arrange: setup a new client
	client, err := alphavantage.NewClient("test-key", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call DailySeries
	raw, err := client.DailySeries(t.Context(), "MSFT")

	// Assert: the body passes through untouched
	require.NoError(t, err)
	require.JSONEq(t, `{"Time Series (Daily)": {}}`, string(raw))
}

func TestNews_TickerOrTopics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ticker string
		limit  int
		check  func(t *testing.T, req *http.Request)
	}{
		{
			name:   "ticker",
			ticker: "AAPL",
			limit:  5,
			check: func(t *testing.T, req *http.Request) {
				require.Equal(t, "AAPL", req.URL.Query().Get("tickers"))
				require.Empty(t, req.URL.Query().Get("topics"))
				require.Equal(t, "5", req.URL.Query().Get("limit"))
			},
		},
		{
			name: "market headlines",
			check: func(t *testing.T, req *http.Request) {
				require.Empty(t, req.URL.Query().Get("tickers"))
				require.Equal(t, "financial_markets", req.URL.Query().Get("topics"))
				require.Equal(t, "20", req.URL.Query().Get("limit"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					require.Equal(t, "NEWS_SENTIMENT", req.URL.Query().Get("function"))
					tt.check(t, req)
					return respond(http.StatusOK, `{"feed": []}`), nil
				}).
				Times(1)

			client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
			require.NoError(t, err)

			_, err = client.News(t.Context(), tt.ticker, tt.limit)
			require.NoError(t, err)
		})
	}
}

func TestCall_RateLimitMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "information",
			body: `{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`,
			want: "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day.",
		},
		{
			name: "note",
			body: `{"Note": "5 calls per minute"}`,
			want: "5 calls per minute",
		},
		{
			name: "marker next to a result",
			body: `{"Global Quote": {}, "Note": "slow down"}`,
			want: "slow down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange: a client whose HTTP call returns a throttled payload
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				Return(respond(http.StatusOK, tt.body), nil).
				Times(1)
			client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
			require.NoError(t, err)

			// Act: call Quote
			raw, err := client.Quote(t.Context(), "AAPL")

			// Assert: the marker is translated into a RateLimitedError
			var rl *alphavantage.RateLimitedError
			require.ErrorAs(t, err, &rl)
			require.Equal(t, tt.want, rl.Message)
			require.True(t, alphavantage.IsRateLimited(err))
			require.Nil(t, raw)
		})
	}
}

func TestCall_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}).
		Times(1)

	// Arrange: setup a new client
	client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call Quote
	raw, err := client.Quote(t.Context(), "AAPL")

	// Assert: transport failures are network errors
	var netErr *alphavantage.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.False(t, alphavantage.IsRateLimited(err))
	require.Nil(t, raw)
}

func TestCall_ErrUnexpectedStatusCode(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(respond(http.StatusInternalServerError, "boom"), nil).
		Times(1)

	// Arrange: setup a new client
	client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call Overview
	raw, err := client.Overview(t.Context(), "AAPL")

	// Assert: the status is carried by an HTTPError
	var httpErr *alphavantage.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	require.Nil(t, raw)
}

func TestCall_TooManyRequests(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(respond(http.StatusTooManyRequests, ""), nil).
		Times(1)

	client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.Quote(t.Context(), "AAPL")
	require.True(t, alphavantage.IsRateLimited(err))
}

func TestCall_ErrMalformedResponse(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client returning HTML instead of JSON
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(respond(http.StatusOK, "<html>maintenance</html>"), nil).
		Times(1)

	// Arrange: setup a new client
	client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call Quote
	raw, err := client.Quote(t.Context(), "AAPL")

	// Assert: the body is reported as malformed
	require.ErrorIs(t, err, alphavantage.ErrMalformedResponse)
	require.Nil(t, raw)
}

func TestCall_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: the HTTP client must never be reached
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	// Arrange: setup a client with an invalid base URL
	client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient), alphavantage.WithBaseURL(string([]rune{0x7f})))
	require.NoError(t, err)

	// Act: call Quote
	raw, err := client.Quote(t.Context(), "AAPL")
	require.Error(t, err)
	require.Nil(t, raw)
}

func TestCall_NonObjectPassesThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(respond(http.StatusOK, `[1, 2, 3]`), nil).
		Times(1)

	client, err := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Assert: only the quota markers are inspected; other shapes are the normalizer's business
	raw, err := client.Quote(t.Context(), "AAPL")
	require.NoError(t, err)
	require.JSONEq(t, `[1, 2, 3]`, string(raw))
}
