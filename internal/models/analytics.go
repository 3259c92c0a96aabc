package models

// RiskLevel classifies portfolio concentration risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// SectorOther is the sector assigned to symbols missing from the catalog.
const SectorOther = "Other"

// SectorAllocation is the aggregate value of one sector.
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PortfolioMetrics is the derived analytics snapshot for a set of holdings.
// It is recomputed on every read and never persisted.
type PortfolioMetrics struct {
	TotalValue           float64            `json:"totalValue"`
	SectorAllocations    []SectorAllocation `json:"sectorAllocation"`
	DiversificationScore float64            `json:"diversificationScore"`
	RiskLevel            RiskLevel          `json:"riskLevel"`
}

// ChartSlice is one segment of the sector allocation chart.
type ChartSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// PortfolioAnalysis bundles metrics, recommendations and chart data.
type PortfolioAnalysis struct {
	Metrics         PortfolioMetrics `json:"metrics"`
	Recommendations []string         `json:"recommendations"`
	Chart           []ChartSlice     `json:"chart"`
	HoldingsCount   int              `json:"holdings_count"`
}
