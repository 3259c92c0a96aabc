// Package models defines data structures for Folio
package models

import "time"

// Holding is a single recorded purchase of a stock.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchasePrice"`
}

// Portfolio is the per-user document persisted in the user data store.
// TargetDate is a calendar date (YYYY-MM-DD) or empty.
type Portfolio struct {
	Stocks         []Holding `json:"stocks"`
	InvestmentGoal float64   `json:"investmentGoal"`
	TargetDate     string    `json:"targetDate"`
}

// NewDefaultPortfolio returns the empty document created on first load.
func NewDefaultPortfolio() *Portfolio {
	return &Portfolio{
		Stocks:         []Holding{},
		InvestmentGoal: 0,
		TargetDate:     "",
	}
}

// Symbols returns the distinct holding symbols in order of first appearance.
func (p *Portfolio) Symbols() []string {
	seen := make(map[string]bool, len(p.Stocks))
	var out []string
	for _, h := range p.Stocks {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			out = append(out, h.Symbol)
		}
	}
	return out
}

// HoldingOverview is one row of the value and gain/loss table.
type HoldingOverview struct {
	Symbol        string  `json:"symbol"`
	Sector        string  `json:"sector"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	CostBasis     float64 `json:"cost_basis"`
	GainLoss      float64 `json:"gain_loss"`
	GainLossPct   float64 `json:"gain_loss_pct"`
}

// PortfolioOverview aggregates holding rows with portfolio totals.
type PortfolioOverview struct {
	Holdings      []HoldingOverview `json:"holdings"`
	TotalValue    float64           `json:"total_value"`
	TotalCost     float64           `json:"total_cost"`
	TotalGainLoss float64           `json:"total_gain_loss"`
	TotalGainPct  float64           `json:"total_gain_loss_pct"`
	Currency      string            `json:"currency"`
	HoldingsCount int               `json:"holdings_count"`
	CalculatedAt  time.Time         `json:"calculated_at"`
}

// GoalProgress reports progress toward the savings goal.
type GoalProgress struct {
	InvestmentGoal float64 `json:"investment_goal"`
	TargetDate     string  `json:"target_date"`
	CurrentValue   float64 `json:"current_value"`
	ProgressPct    float64 `json:"progress_pct"`
	DaysRemaining  int     `json:"days_remaining"`
	Remaining      float64 `json:"remaining"`
	Reached        bool    `json:"reached"`
}

// SubjectPortfolioHistory stores one record per saved portfolio version.
const SubjectPortfolioHistory = "portfolio_history"

// PortfolioVersion is a saved copy of the portfolio document.
type PortfolioVersion struct {
	Version   int       `json:"version"`
	SavedAt   time.Time `json:"saved_at"`
	Portfolio Portfolio `json:"portfolio"`
}
