package server

import (
	"net/http"

	"github.com/bobmcallan/stocknews/internal/models"
)

// handleNews handles GET /api/news/{symbol}?period=.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if s.app.NewsService == nil {
		WriteError(w, http.StatusServiceUnavailable, "News service is not configured")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "7d"
	}

	result, err := s.app.NewsService.GetNews(r.Context(), symbol, period)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("News fetch failed")
		WriteError(w, http.StatusBadGateway, "Failed to fetch news")
		return
	}

	status := http.StatusOK
	if result.Status == models.NewsStatusRateLimit {
		status = http.StatusTooManyRequests
	}
	WriteJSON(w, status, result)
}

// handleNewsSummary handles GET /api/news/{symbol}/summary?period=.
func (s *Server) handleNewsSummary(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if s.app.NewsService == nil {
		WriteError(w, http.StatusServiceUnavailable, "News service is not configured")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "7d"
	}

	summary, err := s.app.NewsService.GetSummary(r.Context(), symbol, period)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Summary generation failed")
		WriteError(w, http.StatusBadGateway, "Failed to generate news summary")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}
