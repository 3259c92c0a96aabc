package analytics

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	concentrationThresholdPct = 30
	concentratedScore         = 60
	minHoldings               = 5
)

// ReferenceSectors are suggested when a portfolio has no exposure to them.
var ReferenceSectors = []string{"Technology", "Financial", "Healthcare", "Consumer Staples"}

// GenerateRecommendations returns advice in a fixed order: over-weight sectors,
// missing reference sectors, overall concentration, then holding count.
func GenerateRecommendations(metrics models.PortfolioMetrics, holdingsCount int) []string {
	recs := []string{}

	present := make(map[string]bool, len(metrics.SectorAllocations))
	for _, a := range metrics.SectorAllocations {
		present[a.Sector] = true
		if a.Percentage > concentrationThresholdPct {
			recs = append(recs, fmt.Sprintf("Consider reducing exposure to %s sector (currently %.1f%%)", a.Sector, a.Percentage))
		}
	}

	for _, sector := range ReferenceSectors {
		if !present[sector] {
			recs = append(recs, fmt.Sprintf("Consider adding %s stocks for better diversification", sector))
		}
	}

	if metrics.DiversificationScore < concentratedScore {
		recs = append(recs, "Portfolio is highly concentrated. Consider spreading investments across more sectors")
	}

	if holdingsCount < minHoldings {
		recs = append(recs, "Consider adding more stocks to reduce company-specific risk")
	}

	return recs
}

// Palette is the fixed colour cycle for sector chart slices.
var Palette = []string{
	"#2563eb", "#16a34a", "#dc2626", "#9333ea", "#ea580c",
	"#0d9488", "#4f46e5", "#db2777", "#ca8a04", "#64748b",
}

// ChartSlices returns one slice per allocation, coloured from Palette in order.
func ChartSlices(allocations []models.SectorAllocation) []models.ChartSlice {
	slices := make([]models.ChartSlice, 0, len(allocations))
	for i, a := range allocations {
		slices = append(slices, models.ChartSlice{
			Label: a.Sector,
			Value: a.Value,
			Color: Palette[i%len(Palette)],
		})
	}
	return slices
}

// Analyze computes metrics, recommendations and chart data in one pass.
// An empty holdings list yields no recommendations.
func Analyze(holdings []models.Holding, prices interfaces.PriceLookup, catalog interfaces.SectorCatalog) models.PortfolioAnalysis {
	metrics := ComputeMetrics(holdings, prices, catalog)
	recs := []string{}
	if len(holdings) > 0 {
		recs = GenerateRecommendations(metrics, len(holdings))
	}
	return models.PortfolioAnalysis{
		Metrics:         metrics,
		Recommendations: recs,
		Chart:           ChartSlices(metrics.SectorAllocations),
		HoldingsCount:   len(holdings),
	}
}
