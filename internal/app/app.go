// Package app wires configuration, storage and services into a runnable application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/metadata"
	"github.com/bobmcallan/folio/internal/services/news"
	"github.com/bobmcallan/folio/internal/services/options"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/services/report"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services and storage.
// It is the shared core used by cmd/folio-server and cmd/folio.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	Quotes           interfaces.QuoteProvider
	Sectors          interfaces.SectorCatalog
	PortfolioService interfaces.PortfolioService
	ReportService    interfaces.ReportService
	NewsService      interfaces.NewsService
	OptionsService   interfaces.OptionsService
	MetadataService  interfaces.MetadataService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: explicit path, FOLIO_CONFIG,
// folio.toml beside the binary, then config/folio.toml for development.
func ResolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("FOLIO_CONFIG"); env != "" {
		return env
	}
	configPath = filepath.Join(getBinaryDir(), "folio.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return "config/folio.toml"
	}
	return configPath
}

// NewApp loads configuration and initializes the application.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadBuildInfo()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	binDir := getBinaryDir()

	// Resolve relative storage path to binary directory
	if config.Storage.Backend == common.BackendSQLite && config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig initializes storage and services from an already loaded config.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	checkSchemaVersion(ctx, storageManager.InternalStore(), logger)

	if config.Auth.Breakglass {
		ensureBreakglassAdmin(ctx, storageManager.InternalStore(), logger)
	}

	quotes := market.NewQuoteTableFromConfig(config.Market)
	sectors := market.NewSectorTable(config.Market.Sectors)

	portfolioService := portfolio.NewService(storageManager, quotes, sectors, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		Quotes:           quotes,
		Sectors:          sectors,
		PortfolioService: portfolioService,
		ReportService:    report.NewService(portfolioService, logger),
		NewsService:      news.NewService(config.News, logger),
		OptionsService:   options.NewService(logger),
		MetadataService:  metadata.NewService(logger),
		StartupTime:      startupStart,
	}

	logger.Info().
		Str("backend", storageManager.Backend()).
		Int("quotes", len(quotes.Quotes())).
		Int("sectors", sectors.Len()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}
