package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stocknews/internal/app"
	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

type stubStockService struct {
	series *models.PriceSeries
	err    error
}

func (s *stubStockService) GetSeries(ctx context.Context, symbol string, period models.Period) (*models.PriceSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.series
	out.Symbol = symbol
	out.Period = period
	return &out, nil
}

type stubNewsService struct {
	result  *models.NewsResult
	summary *models.NewsSummary
	err     error
}

func (s *stubNewsService) GetNews(ctx context.Context, symbol, period string) (*models.NewsResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubNewsService) GetSummary(ctx context.Context, symbol, period string) (*models.NewsSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

type stubCatalog struct {
	stocks []models.Stock
}

func (c *stubCatalog) ListStocks(ctx context.Context) ([]models.Stock, error) { return c.stocks, nil }
func (c *stubCatalog) SaveStocks(ctx context.Context, stocks []models.Stock) error {
	c.stocks = stocks
	return nil
}

type stubStorage struct {
	catalog *stubCatalog
}

func (s *stubStorage) GapStore() interfaces.GapStore         { return nil }
func (s *stubStorage) CatalogStore() interfaces.CatalogStore { return s.catalog }
func (s *stubStorage) SummaryStore() interfaces.SummaryStore { return nil }
func (s *stubStorage) Close() error                          { return nil }

func newTestServer(t *testing.T, stocks interfaces.StockService, news interfaces.NewsService) *Server {
	t.Helper()
	a := &app.App{
		Config:       common.NewDefaultConfig(),
		Logger:       common.NewSilentLogger(),
		Storage:      &stubStorage{catalog: &stubCatalog{}},
		StockService: stocks,
		NewsService:  news,
		StartupTime:  time.Now(),
	}
	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func samplePoint(date string, close float64) models.PricePoint {
	d, _ := time.Parse(models.DateFormat, date)
	return models.PricePoint{Date: d, Open: close - 1, High: close + 1, Low: close - 2, Close: close, Volume: 1000}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestStockPrices_Success(t *testing.T) {
	srv := newTestServer(t, &stubStockService{series: &models.PriceSeries{
		Source: models.SourceFresh,
		Data:   []models.PricePoint{samplePoint("2026-03-09", 180), samplePoint("2026-03-10", 181)},
	}}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/AAPL/prices?period=7d")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.SeriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Symbol)
	assert.Equal(t, "7d", body.Period)
	assert.Equal(t, "fresh", body.Source)
	require.Len(t, body.Data, 2)
	assert.Equal(t, 180.0, body.Data[0].Close)
}

func TestStockPrices_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid period", models.ErrInvalidPeriod, http.StatusBadRequest},
		{"unknown symbol", fmt.Errorf("wrapped: %w", models.ErrSymbolNotFound), http.StatusNotFound},
		{"upstream down", fmt.Errorf("%w for AAPL", models.ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &stubStockService{err: tc.err}, nil)
			rec := doRequest(t, srv, http.MethodGet, "/api/stocks/AAPL/prices")
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestStockPrices_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)
	rec := doRequest(t, srv, http.MethodPost, "/api/stocks/AAPL/prices")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStockList_SeedsEmptyCatalog(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks")
	require.Equal(t, http.StatusOK, rec.Code)

	var stocks []models.Stock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stocks))
	require.Len(t, stocks, 3)
	assert.Equal(t, "AAPL", stocks[0].Symbol)
}

func TestStockChart_RendersPNG(t *testing.T) {
	points := make([]models.PricePoint, 0, 10)
	for i := 1; i <= 10; i++ {
		points = append(points, samplePoint(fmt.Sprintf("2026-03-%02d", i), 180+float64(i)))
	}
	srv := newTestServer(t, &stubStockService{series: &models.PriceSeries{
		Source: models.SourceCache,
		Data:   points,
	}}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/AAPL/chart?period=1mo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	// PNG magic bytes
	require.True(t, rec.Body.Len() > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestNews_RateLimitStatus(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, &stubNewsService{
		result: &models.NewsResult{Status: models.NewsStatusRateLimit, Message: "limit reached"},
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/news/AAPL")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNews_NotConfigured(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/news/AAPL")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewsSummary_Success(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, &stubNewsService{
		summary: &models.NewsSummary{Symbol: "AAPL", Summary: "All quiet.", ArticleCount: 4},
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/news/AAPL/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.NewsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "All quiet.", body.Summary)
}

func TestShutdown_ForbiddenInProduction(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)
	srv.app.Config.Environment = "production"

	rec := doRequest(t, srv, http.MethodPost, "/api/shutdown")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownSubpath(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/AAPL/dividends")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, &stubStockService{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/stocks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
