package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// DateLayout is the calendar date format used for goal target dates.
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// SummarizeHoldings builds the per-holding value and gain/loss table.
// Money is accumulated in decimal and rounded to cents; percentages to two places.
func SummarizeHoldings(holdings []models.Holding, prices interfaces.PriceLookup, catalog interfaces.SectorCatalog, currency string, now time.Time) models.PortfolioOverview {
	rows := make([]models.HoldingOverview, 0, len(holdings))
	totalValue := decimal.Zero
	totalCost := decimal.Zero

	for _, h := range holdings {
		shares := decimal.NewFromFloat(h.Shares)
		purchase := decimal.NewFromFloat(h.PurchasePrice)
		current := decimal.NewFromFloat(EffectivePrice(h, prices))

		value := current.Mul(shares)
		cost := purchase.Mul(shares)
		gain := value.Sub(cost)

		sector := models.SectorOther
		if catalog != nil {
			sector = catalog.Sector(h.Symbol)
		}

		rows = append(rows, models.HoldingOverview{
			Symbol:        h.Symbol,
			Sector:        sector,
			Shares:        h.Shares,
			PurchasePrice: h.PurchasePrice,
			CurrentPrice:  current.InexactFloat64(),
			MarketValue:   value.Round(2).InexactFloat64(),
			CostBasis:     cost.Round(2).InexactFloat64(),
			GainLoss:      gain.Round(2).InexactFloat64(),
			GainLossPct:   percentOf(gain, cost),
		})

		totalValue = totalValue.Add(value)
		totalCost = totalCost.Add(cost)
	}

	totalGain := totalValue.Sub(totalCost)
	return models.PortfolioOverview{
		Holdings:      rows,
		TotalValue:    totalValue.Round(2).InexactFloat64(),
		TotalCost:     totalCost.Round(2).InexactFloat64(),
		TotalGainLoss: totalGain.Round(2).InexactFloat64(),
		TotalGainPct:  percentOf(totalGain, totalCost),
		Currency:      currency,
		HoldingsCount: len(holdings),
		CalculatedAt:  now,
	}
}

func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64()
}

// ComputeGoalProgress reports progress toward a savings goal.
// Progress is capped at 100%; days remaining never goes below zero.
// An unparseable target date is treated as unset.
func ComputeGoalProgress(currentValue, goal float64, targetDate string, now time.Time) models.GoalProgress {
	gp := models.GoalProgress{
		InvestmentGoal: goal,
		TargetDate:     targetDate,
		CurrentValue:   currentValue,
	}

	if goal > 0 {
		gp.ProgressPct = math.Min(currentValue/goal*100, 100)
		gp.Remaining = math.Max(goal-currentValue, 0)
		gp.Reached = currentValue >= goal
	}

	if targetDate != "" {
		if target, err := time.Parse(DateLayout, targetDate); err == nil {
			days := math.Ceil(target.Sub(now).Hours() / 24)
			gp.DaysRemaining = int(math.Max(days, 0))
		}
	}

	return gp
}
