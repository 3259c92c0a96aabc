package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/folio/internal/models"
)

// PortfolioService manages the per-user portfolio document.
// The user is resolved from the request context.
type PortfolioService interface {
	// Load returns the user's portfolio, creating and persisting the default when none exists
	Load(ctx context.Context) (*models.Portfolio, error)

	// Save persists the document. On failure the last stored document is returned
	// with an error wrapping models.ErrSaveFailed.
	Save(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error)

	// AddHolding validates and appends a holding
	AddHolding(ctx context.Context, h models.Holding) (*models.Portfolio, error)

	// RemoveHolding removes every holding with the given symbol
	RemoveHolding(ctx context.Context, symbol string) (*models.Portfolio, error)

	// SetGoal updates the savings goal and target date
	SetGoal(ctx context.Context, goal float64, targetDate string) (*models.Portfolio, error)

	// Overview returns the value and gain/loss table
	Overview(ctx context.Context) (*models.PortfolioOverview, error)

	// Analyze returns sector metrics, risk and recommendations
	Analyze(ctx context.Context) (*models.PortfolioAnalysis, error)

	// GoalProgress returns progress toward the savings goal
	GoalProgress(ctx context.Context) (*models.GoalProgress, error)

	// SectorChart renders the sector allocation chart as PNG
	SectorChart(ctx context.Context) ([]byte, error)

	// History returns saved versions, newest first (limit 0 = all retained)
	History(ctx context.Context, limit int) ([]models.PortfolioVersion, error)

	// DeleteAll removes the user's portfolio and its history
	DeleteAll(ctx context.Context) error
}

// ReportService renders portfolio reports
type ReportService interface {
	// Markdown returns the analytics report as markdown
	Markdown(ctx context.Context) (string, error)

	// HTML returns the analytics report rendered to HTML
	HTML(ctx context.Context) (string, error)
}

// NewsService serves the news feed
type NewsService interface {
	// Latest returns up to limit items (0 = all), newest first, optionally filtered by symbol
	Latest(limit int, symbols []string) []models.NewsItem
}

// OptionsService evaluates option positions
type OptionsService interface {
	Calculate(pos models.OptionPosition) (*models.OptionAnalysis, error)
	PayoffChart(analysis *models.OptionAnalysis) ([]byte, error)
}

// MetadataService extracts embedded image metadata
type MetadataService interface {
	Extract(name string, r io.Reader) (*models.ImageMetadata, error)
}
