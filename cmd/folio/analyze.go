package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/bobmcallan/folio/internal/analytics"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/services/report"
)

// analyzeCmd renders the analytics report for a portfolio JSON file.
type analyzeCmd struct {
	file string
	raw  bool
	out  io.Writer
	now  func() time.Time
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyze a portfolio file and print the report" }
func (*analyzeCmd) Usage() string {
	return `folio analyze -f <portfolio.json> [-raw]

  Reads a portfolio document ({"stocks":[...],"investmentGoal":...,"targetDate":...})
  or a bare array of holdings, and prints value, sector allocation, risk and
  recommendations using the configured price and sector tables.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "portfolio.json", "Portfolio JSON file, or - for stdin")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling")
}

func (c *analyzeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	p, err := readPortfolio(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading portfolio %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	md, err := c.report(cfg, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := printMarkdown(c.writer(), md, c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *analyzeCmd) writer() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

// report validates the document and formats the analytics report.
func (c *analyzeCmd) report(cfg *common.Config, p *models.Portfolio) (string, error) {
	holdings := make([]models.Holding, 0, len(p.Stocks))
	for _, h := range p.Stocks {
		h, err := portfolio.NormalizeHolding(h)
		if err != nil {
			return "", err
		}
		holdings = append(holdings, h)
	}
	targetDate, err := portfolio.ValidateGoal(p.InvestmentGoal, p.TargetDate)
	if err != nil {
		return "", err
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	quotes := market.NewQuoteTableFromConfig(cfg.Market)
	sectors := market.NewSectorTable(cfg.Market.Sectors)

	overview := analytics.SummarizeHoldings(holdings, quotes, sectors, quotes.Currency(), now())
	analysis := analytics.Analyze(holdings, quotes, sectors)
	goal := analytics.ComputeGoalProgress(analysis.Metrics.TotalValue, p.InvestmentGoal, targetDate, now())

	return report.FormatReport(&overview, &analysis, &goal), nil
}

// readPortfolio accepts a full document or a bare holdings array.
func readPortfolio(name string) (*models.Portfolio, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}

	var holdings []models.Holding
	if err := json.Unmarshal(data, &holdings); err == nil {
		return &models.Portfolio{Stocks: holdings}, nil
	}

	var p models.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid portfolio JSON: %w", err)
	}
	return &p, nil
}
