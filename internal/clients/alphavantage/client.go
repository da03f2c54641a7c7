// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// seriesFunction maps a period hint to the Alpha Vantage function and the
// response key interval. Long lookbacks use the coarser series so the payload
// stays bounded; short ones use the full daily series.
var seriesFunction = map[models.Period]struct {
	function string
	interval string
}{
	models.Period7D:  {"TIME_SERIES_DAILY", "Daily"},
	models.Period1Mo: {"TIME_SERIES_DAILY", "Daily"},
	models.Period1Y:  {"TIME_SERIES_DAILY", "Daily"},
	models.Period3Y:  {"TIME_SERIES_DAILY", "Daily"},
	models.Period5Y:  {"TIME_SERIES_WEEKLY", "Weekly"},
	models.PeriodMax: {"TIME_SERIES_MONTHLY", "Monthly"},
}

// Client implements the PriceClient interface against Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// get performs a rate-limited GET request and decodes the raw JSON object.
func (c *Client) get(ctx context.Context, params url.Values) (map[string]json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", params.Get("function")).Str("symbol", params.Get("symbol")).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &models.RateLimitError{RetryAfter: time.Minute}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Function:   params.Get("function"),
		}
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The API signals rate limiting and bad symbols inside a 200 body.
	if note, ok := stringField(payload, "Note"); ok && strings.Contains(note, "call frequency") {
		return nil, &models.RateLimitError{RetryAfter: time.Minute}
	}
	if info, ok := stringField(payload, "Information"); ok && strings.Contains(strings.ToLower(info), "rate limit") {
		return nil, &models.RateLimitError{RetryAfter: time.Minute}
	}
	if msg, ok := stringField(payload, "Error Message"); ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotFound, msg)
	}

	return payload, nil
}

func stringField(payload map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := payload[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// GetOverview retrieves company metadata for a symbol.
func (c *Client) GetOverview(ctx context.Context, symbol string) (*models.SymbolOverview, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", requestSymbol(symbol))

	payload, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// Unknown symbols come back as an empty object.
	name, _ := stringField(payload, "Name")
	if name == "" {
		return nil, fmt.Errorf("%w: no metadata for %s", models.ErrSymbolNotFound, symbol)
	}

	overview := &models.SymbolOverview{Symbol: symbol, Name: name}
	if exchange, ok := stringField(payload, "Exchange"); ok {
		overview.Exchange = exchange
	}
	if currency, ok := stringField(payload, "Currency"); ok {
		overview.Currency = currency
	}

	return overview, nil
}

// GetDailySeries retrieves the price series for a symbol. The provider
// returns its whole lookback window; callers intersect with what they need.
func (c *Client) GetDailySeries(ctx context.Context, symbol string, period models.Period) ([]models.PricePoint, error) {
	mapping, ok := seriesFunction[period]
	if !ok {
		mapping = seriesFunction[models.Period7D]
	}

	params := url.Values{}
	params.Set("function", mapping.function)
	params.Set("symbol", requestSymbol(symbol))
	if mapping.function == "TIME_SERIES_DAILY" {
		params.Set("outputsize", "full")
	}

	payload, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	seriesKey := fmt.Sprintf("Time Series (%s)", mapping.interval)
	raw, ok := payload[seriesKey]
	if !ok {
		// Weekly/monthly series use a different key shape.
		altKey := fmt.Sprintf("%s Time Series", mapping.interval)
		if raw, ok = payload[altKey]; !ok {
			return nil, &APIError{
				StatusCode: http.StatusOK,
				Message:    fmt.Sprintf("missing %q in response", seriesKey),
				Function:   mapping.function,
			}
		}
	}

	var series map[string]seriesBar
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("failed to decode time series: %w", err)
	}

	points := make([]models.PricePoint, 0, len(series))
	for dateStr, bar := range series {
		point, err := bar.toPoint(dateStr)
		if err != nil {
			// Malformed rows are skipped, not fatal.
			continue
		}
		points = append(points, point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	// Trim the full-history daily payload to the requested lookback.
	if days := period.Days(); days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}

	c.logger.Debug().Str("symbol", symbol).Int("points", len(points)).Msg("Alpha Vantage series returned")

	return points, nil
}

// seriesBar is one OHLCV row. Alpha Vantage encodes every value as a string.
type seriesBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (b seriesBar) toPoint(dateStr string) (models.PricePoint, error) {
	date, err := time.Parse(models.DateFormat, dateStr)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("bad date %q: %w", dateStr, err)
	}

	open, err := strconv.ParseFloat(b.Open, 64)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("bad open: %w", err)
	}
	high, err := strconv.ParseFloat(b.High, 64)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("bad high: %w", err)
	}
	low, err := strconv.ParseFloat(b.Low, 64)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("bad low: %w", err)
	}
	close_, err := strconv.ParseFloat(b.Close, 64)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("bad close: %w", err)
	}
	volume, err := strconv.ParseFloat(b.Volume, 64)
	if err != nil {
		volume = 0
	}

	return models.PricePoint{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close_,
		Volume: int64(volume),
	}, nil
}

// requestSymbol strips index notation for the wire request.
func requestSymbol(symbol string) string {
	return strings.TrimPrefix(symbol, "^")
}

// Ensure Client implements PriceClient
var _ interfaces.PriceClient = (*Client)(nil)
