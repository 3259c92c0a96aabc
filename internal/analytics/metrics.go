// Package analytics computes portfolio value, sector allocation, diversification
// and risk from a holdings list. All functions are pure and safe for concurrent use.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Risk thresholds on the diversification score.
const (
	lowRiskScore      = 80
	moderateRiskScore = 60
)

// Prices is a map-backed PriceLookup.
type Prices map[string]float64

// Price implements interfaces.PriceLookup.
func (p Prices) Price(symbol string) (float64, bool) {
	v, ok := p[symbol]
	return v, ok
}

// Sectors is a map-backed SectorCatalog. Unknown symbols map to "Other".
type Sectors map[string]string

// Sector implements interfaces.SectorCatalog.
func (s Sectors) Sector(symbol string) string {
	if v, ok := s[symbol]; ok && v != "" {
		return v
	}
	return models.SectorOther
}

// EffectivePrice returns the looked-up price for a holding, or its purchase price when none is known.
func EffectivePrice(h models.Holding, prices interfaces.PriceLookup) float64 {
	if prices != nil {
		if p, ok := prices.Price(h.Symbol); ok {
			return p
		}
	}
	return h.PurchasePrice
}

// ComputeMetrics derives total value, sector allocations, diversification score
// and risk level. Sectors appear in order of first appearance among holdings.
func ComputeMetrics(holdings []models.Holding, prices interfaces.PriceLookup, catalog interfaces.SectorCatalog) models.PortfolioMetrics {
	var order []string
	sectorValues := make(map[string]float64)
	totalValue := 0.0

	for _, h := range holdings {
		value := EffectivePrice(h, prices) * h.Shares
		totalValue += value

		sector := models.SectorOther
		if catalog != nil {
			sector = catalog.Sector(h.Symbol)
		}
		if _, seen := sectorValues[sector]; !seen {
			order = append(order, sector)
		}
		sectorValues[sector] += value
	}

	allocations := []models.SectorAllocation{}
	if totalValue > 0 {
		for _, sector := range order {
			value := sectorValues[sector]
			if value <= 0 {
				continue
			}
			allocations = append(allocations, models.SectorAllocation{
				Sector:     sector,
				Value:      value,
				Percentage: value / totalValue * 100,
			})
		}
	}

	score := DiversificationScore(allocations)
	return models.PortfolioMetrics{
		TotalValue:           totalValue,
		SectorAllocations:    allocations,
		DiversificationScore: score,
		RiskLevel:            RiskLevelFor(score),
	}
}

// DiversificationScore is min(100, sectors*10 + (100 - largest percentage)),
// clamped to [0, 100]. No sectors scores 0.
func DiversificationScore(allocations []models.SectorAllocation) float64 {
	if len(allocations) == 0 {
		return 0
	}
	pcts := make([]float64, len(allocations))
	for i, a := range allocations {
		pcts[i] = a.Percentage
	}
	score := float64(len(allocations))*10 + (100 - floats.Max(pcts))
	return math.Max(0, math.Min(100, score))
}

// RiskLevelFor maps a diversification score to a risk tier.
func RiskLevelFor(score float64) models.RiskLevel {
	switch {
	case score >= lowRiskScore:
		return models.RiskLow
	case score >= moderateRiskScore:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}
