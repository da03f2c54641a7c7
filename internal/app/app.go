package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/stocknews/internal/clients/alphavantage"
	"github.com/bobmcallan/stocknews/internal/clients/gemini"
	"github.com/bobmcallan/stocknews/internal/clients/newsapi"
	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/services/news"
	"github.com/bobmcallan/stocknews/internal/services/reconcile"
	"github.com/bobmcallan/stocknews/internal/storage"
)

// App holds all initialized services, clients, and storage.
// It is the shared core wired by cmd/stocknews-server.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Storage      interfaces.StorageManager
	PriceClient  interfaces.PriceClient
	NewsClient   interfaces.NewsClient
	AIClient     interfaces.AIClient
	StockService interfaces.StockService
	NewsService  interfaces.NewsService
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, STOCKNEWS_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("STOCKNEWS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stocknews.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stocknews.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	// Initialize logger
	logger := common.NewLogger(config.Logging.Level)

	// Initialize storage
	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	// Initialize API clients; each degrades to nil when its key is missing
	var priceClient interfaces.PriceClient
	if key := config.Clients.AlphaVantage.APIKey; key != "" {
		priceClient = alphavantage.NewClient(key,
			alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
			alphavantage.WithLogger(logger),
			alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
		)
	} else {
		logger.Warn().Msg("Alpha Vantage API key not configured - price fetching will serve cache only")
	}

	var newsClient interfaces.NewsClient
	if key := config.Clients.NewsAPI.APIKey; key != "" {
		newsClient = newsapi.NewClient(key,
			newsapi.WithBaseURL(config.Clients.NewsAPI.BaseURL),
			newsapi.WithLogger(logger),
			newsapi.WithRateLimit(config.Clients.NewsAPI.RateLimit),
		)
	} else {
		logger.Warn().Msg("News API key not configured - news endpoints will be unavailable")
	}

	var aiClient interfaces.AIClient
	if key := config.Clients.Gemini.APIKey; key != "" {
		geminiClient, err := gemini.NewClient(ctx, key,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			aiClient = geminiClient
		}
	}

	// Initialize services
	policy := reconcile.Policy{
		MaxAttempts: config.Reconcile.MaxAttempts,
		BaseDelay:   config.Reconcile.GetBaseDelay(),
		Jitter:      config.Reconcile.GetJitter(),
		Timeout:     config.Reconcile.GetTimeout(),
	}
	fetcher := reconcile.NewFetcher(priceClient, policy, logger)
	gate := reconcile.NewGate(config.Reconcile.GateCapacity)
	stockService := reconcile.NewService(storageManager.GapStore(), fetcher, gate, logger)

	var newsService interfaces.NewsService
	if newsClient != nil {
		newsService = news.NewService(newsClient, aiClient, storageManager.SummaryStore(), logger)
	}

	a := &App{
		Config:       config,
		Logger:       logger,
		Storage:      storageManager,
		PriceClient:  priceClient,
		NewsClient:   newsClient,
		AIClient:     aiClient,
		StockService: stockService,
		NewsService:  newsService,
		StartupTime:  startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
