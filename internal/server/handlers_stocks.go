package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/stocknews/internal/models"
)

// defaultStocks seeds the catalog on first access so an empty install has
// something to show.
var defaultStocks = []models.Stock{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
}

// handleStockList handles GET /api/stocks.
func (s *Server) handleStockList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	catalog := s.app.Storage.CatalogStore()
	stocks, err := catalog.ListStocks(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list stocks")
		WriteError(w, http.StatusInternalServerError, "Failed to list stocks")
		return
	}

	if len(stocks) == 0 {
		if err := catalog.SaveStocks(ctx, defaultStocks); err != nil {
			s.logger.Error().Err(err).Msg("Failed to seed stock catalog")
		}
		stocks = defaultStocks
	}

	WriteJSON(w, http.StatusOK, stocks)
}

// handleStockPrices handles GET /api/stocks/{symbol}/prices?period=.
func (s *Server) handleStockPrices(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	period := models.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = models.Period7D
	}

	series, err := s.app.StockService.GetSeries(r.Context(), symbol, period)
	if err != nil {
		writeSeriesError(w, symbol, err)
		return
	}

	WriteJSON(w, http.StatusOK, series.Response())
}

// writeSeriesError maps the core error taxonomy to HTTP status codes.
func writeSeriesError(w http.ResponseWriter, symbol string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidPeriod):
		WriteError(w, http.StatusBadRequest, "Invalid period. Must be one of: 7d, 1mo, 1y, 3y, 5y, max")
	case errors.Is(err, models.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, "Stock not found: "+symbol)
	case errors.Is(err, models.ErrUpstreamUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "Price data temporarily unavailable for "+symbol)
	default:
		WriteError(w, http.StatusInternalServerError, "Failed to retrieve price data")
	}
}
