package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// FormatReport renders the full analytics report as markdown.
func FormatReport(overview *models.PortfolioOverview, analysis *models.PortfolioAnalysis, goal *models.GoalProgress) string {
	var sb strings.Builder
	cur := overview.Currency

	sb.WriteString("# Portfolio Report\n\n")
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", overview.CalculatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**Total Value:** %s\n", common.FormatMoney(overview.TotalValue, cur)))
	sb.WriteString(fmt.Sprintf("**Total Cost:** %s\n", common.FormatMoney(overview.TotalCost, cur)))
	sb.WriteString(fmt.Sprintf("**Total Gain:** %s (%s)\n\n",
		common.FormatSignedMoney(overview.TotalGainLoss, cur), common.FormatPct(overview.TotalGainPct)))

	sb.WriteString(formatHoldings(overview))
	sb.WriteString(formatAllocation(analysis, cur))
	sb.WriteString(formatRecommendations(analysis.Recommendations))
	sb.WriteString(formatGoal(goal, cur))

	return sb.String()
}

func formatHoldings(overview *models.PortfolioOverview) string {
	var sb strings.Builder
	cur := overview.Currency

	sb.WriteString("## Holdings\n\n")
	if len(overview.Holdings) == 0 {
		sb.WriteString("_No holdings yet._\n\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Sector | Shares | Purchase Price | Current Price | Value | Gain/Loss | Gain/Loss % |\n")
	sb.WriteString("|--------|--------|--------|----------------|---------------|-------|-----------|-------------|\n")
	for _, h := range overview.Holdings {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			h.Symbol, h.Sector, strconv.FormatFloat(h.Shares, 'f', -1, 64),
			common.FormatMoney(h.PurchasePrice, cur), common.FormatMoney(h.CurrentPrice, cur),
			common.FormatMoney(h.MarketValue, cur),
			common.FormatSignedMoney(h.GainLoss, cur), common.FormatPct(h.GainLossPct),
		))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | | | | | **%s** | **%s** | **%s** |\n\n",
		common.FormatMoney(overview.TotalValue, cur),
		common.FormatSignedMoney(overview.TotalGainLoss, cur), common.FormatPct(overview.TotalGainPct)))
	return sb.String()
}

func formatAllocation(analysis *models.PortfolioAnalysis, cur string) string {
	var sb strings.Builder
	m := analysis.Metrics

	sb.WriteString("## Sector Allocation\n\n")
	if len(m.SectorAllocations) > 0 {
		sb.WriteString("| Sector | Value | Weight |\n")
		sb.WriteString("|--------|-------|--------|\n")
		for _, a := range m.SectorAllocations {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f%% |\n", a.Sector, common.FormatMoney(a.Value, cur), a.Percentage))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Diversification Score:** %.0f/100\n", m.DiversificationScore))
	sb.WriteString(fmt.Sprintf("**Risk Level:** %s\n\n", m.RiskLevel))
	return sb.String()
}

func formatRecommendations(recs []string) string {
	if len(recs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Recommendations\n\n")
	for _, r := range recs {
		sb.WriteString("- " + r + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatGoal(goal *models.GoalProgress, cur string) string {
	if goal == nil || goal.InvestmentGoal <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Savings Goal\n\n")
	sb.WriteString(fmt.Sprintf("**Goal:** %s\n", common.FormatMoney(goal.InvestmentGoal, cur)))
	sb.WriteString(fmt.Sprintf("**Progress:** %.1f%%\n", goal.ProgressPct))
	if goal.Reached {
		sb.WriteString("**Status:** Reached\n")
	} else {
		sb.WriteString(fmt.Sprintf("**Remaining:** %s\n", common.FormatMoney(goal.Remaining, cur)))
	}
	if goal.TargetDate != "" {
		sb.WriteString(fmt.Sprintf("**Target Date:** %s (%d days remaining)\n", goal.TargetDate, goal.DaysRemaining))
	}
	sb.WriteString("\n")
	return sb.String()
}
