// Package report renders portfolio analytics as markdown and HTML
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// Service implements ReportService
type Service struct {
	portfolio interfaces.PortfolioService
	logger    *common.Logger
	md        goldmark.Markdown
}

// NewService creates a new report service
func NewService(portfolio interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{
		portfolio: portfolio,
		logger:    logger,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Markdown builds the report from freshly computed overview, analytics and goal data.
func (s *Service) Markdown(ctx context.Context) (string, error) {
	overview, err := s.portfolio.Overview(ctx)
	if err != nil {
		return "", fmt.Errorf("overview: %w", err)
	}
	analysis, err := s.portfolio.Analyze(ctx)
	if err != nil {
		return "", fmt.Errorf("analyze: %w", err)
	}
	goal, err := s.portfolio.GoalProgress(ctx)
	if err != nil {
		return "", fmt.Errorf("goal progress: %w", err)
	}

	report := FormatReport(overview, analysis, goal)
	s.logger.Debug().Str("user_id", common.ResolveUserID(ctx)).Int("bytes", len(report)).Msg("Report generated")
	return report, nil
}

func (s *Service) HTML(ctx context.Context) (string, error) {
	md, err := s.Markdown(ctx)
	if err != nil {
		return "", err
	}
	return s.RenderHTML(md)
}

// RenderHTML converts markdown (GitHub flavoured, with tables) to HTML.
func (s *Service) RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render report HTML: %w", err)
	}
	return buf.String(), nil
}

// Compile-time check
var _ interfaces.ReportService = (*Service)(nil)
