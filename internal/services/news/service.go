// Package news provides stock news retrieval and cached AI summarization.
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

// periodDays maps news period tokens to a day count. The news window uses its
// own (shorter) token set; unknown tokens default to a week.
var periodDays = map[string]int{
	"1d": 1,
	"7d": 7,
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
}

// freeTierLimitDays is the provider's free-plan history cutoff.
const freeTierLimitDays = 30

// maxSummaryArticles bounds how many articles feed the summary prompt.
const maxSummaryArticles = 50

// Service implements NewsService.
type Service struct {
	client  interfaces.NewsClient
	ai      interfaces.AIClient
	storage interfaces.SummaryStore
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a news service. ai may be nil when no summarizer is
// configured; GetSummary will report it unavailable.
func NewService(client interfaces.NewsClient, ai interfaces.AIClient, storage interfaces.SummaryStore, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		ai:      ai,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// GetNews retrieves articles mentioning the symbol within the period window,
// clamped to the provider's free-tier history limit.
func (s *Service) GetNews(ctx context.Context, symbol string, period string) (*models.NewsResult, error) {
	days, ok := periodDays[period]
	if !ok {
		days = 7
	}

	var warning string
	if days > freeTierLimitDays {
		days = freeTierLimitDays
		warning = "Only showing news from the last month due to provider limitations."
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -days)

	result, err := s.client.GetNews(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("news fetch for %s: %w", symbol, err)
	}

	if warning != "" && result.Warning == "" {
		result.Warning = warning
	}

	return result, nil
}

// GetSummary returns an AI summary of recent headlines for the symbol,
// cached with a freshness TTL so repeated requests don't re-prompt the model.
func (s *Service) GetSummary(ctx context.Context, symbol string, period string) (*models.NewsSummary, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("summarizer is not configured")
	}

	if cached, err := s.storage.GetSummary(ctx, symbol, period); err == nil && cached != nil {
		if common.IsFresh(cached.GeneratedAt, common.FreshnessNewsSummary) {
			s.logger.Debug().Str("symbol", symbol).Msg("Serving cached news summary")
			return cached, nil
		}
	}

	result, err := s.GetNews(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if len(result.Articles) == 0 {
		return nil, fmt.Errorf("no articles available to summarize for %s", symbol)
	}

	prompt := buildPrompt(symbol, result.Articles)
	text, err := s.ai.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("summary generation for %s: %w", symbol, err)
	}

	summary := &models.NewsSummary{
		Symbol:       symbol,
		Period:       period,
		Summary:      strings.TrimSpace(text),
		ArticleCount: len(result.Articles),
		GeneratedAt:  s.now(),
	}

	if err := s.storage.SaveSummary(ctx, summary); err != nil {
		// The generated summary is still returned.
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to cache news summary")
	}

	return summary, nil
}

func buildPrompt(symbol string, articles []models.NewsArticle) string {
	if len(articles) > maxSummaryArticles {
		articles = articles[:maxSummaryArticles]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize the following recent news headlines about the stock %s ", symbol)
	sb.WriteString("in a few short paragraphs. Focus on themes that could move the price. ")
	sb.WriteString("Do not give investment advice.\n\n")
	for _, a := range articles {
		sb.WriteString("- ")
		sb.WriteString(a.Title)
		if a.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(a.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
