// Package newsapi provides a client for the NewsAPI /v2/everything endpoint
package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"encoding/json"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

const (
	DefaultBaseURL   = "https://newsapi.org/v2/everything"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
	pageSize         = 100
)

// Client implements the NewsClient interface against NewsAPI.
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

// NewClient creates a new NewsAPI client
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

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Message      string `json:"message"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// GetNews retrieves every article mentioning the symbol in [from, to],
// walking pages until the results are exhausted. Provider-side degradation
// (rate limits, free-tier history cutoff) is reported in the result status
// rather than as an error.
func (c *Client) GetNews(ctx context.Context, symbol string, from, to time.Time) (*models.NewsResult, error) {
	var articles []models.NewsArticle

	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		params := url.Values{}
		params.Set("q", fmt.Sprintf("%q OR %q", symbol, symbol+" stock"))
		params.Set("from", from.Format(models.DateFormat))
		params.Set("to", to.Format(models.DateFormat))
		params.Set("language", "en")
		params.Set("sortBy", "publishedAt")
		params.Set("pageSize", strconv.Itoa(pageSize))
		params.Set("page", strconv.Itoa(page))
		params.Set("apiKey", c.apiKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		c.logger.Debug().Str("symbol", symbol).Int("page", page).Msg("NewsAPI request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			resp.Body.Close()
			return &models.NewsResult{
				Status:  models.NewsStatusRateLimit,
				Message: "Daily news rate limit reached.",
			}, nil
		case http.StatusUpgradeRequired:
			// Free tier refuses history past its cutoff.
			resp.Body.Close()
			if len(articles) > 0 {
				return &models.NewsResult{
					Status:   models.NewsStatusPartialSuccess,
					Articles: articles,
					Warning:  "Older articles are not available on the current plan.",
				}, nil
			}
			return &models.NewsResult{
				Status:  models.NewsStatusError,
				Message: "No articles available for the requested time period.",
			}, nil
		}

		var payload newsAPIResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if payload.Status != "ok" {
			message := payload.Message
			if message == "" {
				message = "unknown error occurred while fetching news"
			}
			return &models.NewsResult{
				Status:  models.NewsStatusError,
				Message: "API Error: " + message,
			}, nil
		}

		if len(payload.Articles) == 0 {
			break
		}

		for _, a := range payload.Articles {
			articles = append(articles, models.NewsArticle{
				Title:       a.Title,
				Description: a.Description,
				URL:         a.URL,
				Source:      a.Source.Name,
				PublishedAt: a.PublishedAt,
			})
		}

		if len(payload.Articles) < pageSize || page*pageSize >= payload.TotalResults {
			break
		}
	}

	c.logger.Debug().Str("symbol", symbol).Int("articles", len(articles)).Msg("NewsAPI fetch complete")

	return &models.NewsResult{
		Status:   models.NewsStatusSuccess,
		Articles: articles,
	}, nil
}

// Ensure Client implements NewsClient
var _ interfaces.NewsClient = (*Client)(nil)
