package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

var testSectors = Sectors{
	"AAPL": "Technology", "GOOGL": "Technology", "MSFT": "Technology",
	"JPM": "Financial", "BAC": "Financial",
	"XOM": "Energy", "CVX": "Energy",
	"JNJ": "Healthcare", "PFE": "Healthcare",
	"PG": "Consumer Staples", "KO": "Consumer Staples",
	"AMZN": "Consumer Discretionary", "TSLA": "Consumer Discretionary",
}

func TestComputeMetrics_SingleHolding(t *testing.T) {
	holdings := []models.Holding{{Symbol: "AAPL", Shares: 10, PurchasePrice: 150}}
	m := ComputeMetrics(holdings, Prices{"AAPL": 175.43}, testSectors)

	assert.InDelta(t, 1754.3, m.TotalValue, 1e-9)
	require.Len(t, m.SectorAllocations, 1)
	assert.Equal(t, "Technology", m.SectorAllocations[0].Sector)
	assert.InDelta(t, 1754.3, m.SectorAllocations[0].Value, 1e-9)
	assert.InDelta(t, 100.0, m.SectorAllocations[0].Percentage, 1e-9)
	assert.InDelta(t, 10.0, m.DiversificationScore, 1e-9)
	assert.Equal(t, models.RiskHigh, m.RiskLevel)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil, Prices{}, testSectors)

	assert.Equal(t, 0.0, m.TotalValue)
	assert.NotNil(t, m.SectorAllocations)
	assert.Empty(t, m.SectorAllocations)
	assert.Equal(t, 0.0, m.DiversificationScore)
	assert.Equal(t, models.RiskHigh, m.RiskLevel)
}

func TestComputeMetrics_EvenTenSectors(t *testing.T) {
	sectors := Sectors{}
	var holdings []models.Holding
	names := []string{
		"Technology", "Financial", "Healthcare", "Consumer Staples", "Energy",
		"Consumer Discretionary", "Utilities", "Materials", "Industrials", "Real Estate",
	}
	for i, name := range names {
		sym := string(rune('A'+i)) + "X"
		sectors[sym] = name
		holdings = append(holdings, models.Holding{Symbol: sym, Shares: 1, PurchasePrice: 100})
	}

	m := ComputeMetrics(holdings, nil, sectors)
	require.Len(t, m.SectorAllocations, 10)
	for _, a := range m.SectorAllocations {
		assert.InDelta(t, 10.0, a.Percentage, 1e-9)
	}
	assert.Equal(t, 100.0, m.DiversificationScore)
	assert.Equal(t, models.RiskLow, m.RiskLevel)
}

func TestComputeMetrics_PriceFallback(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "AAPL", Shares: 2, PurchasePrice: 100},
		{Symbol: "JPM", Shares: 4, PurchasePrice: 50},
	}
	m := ComputeMetrics(holdings, Prices{"AAPL": 200}, testSectors)

	// AAPL uses the lookup, JPM falls back to its purchase price
	assert.InDelta(t, 600.0, m.TotalValue, 1e-9)
}

func TestComputeMetrics_ZeroPriceIsUsed(t *testing.T) {
	holdings := []models.Holding{{Symbol: "AAPL", Shares: 10, PurchasePrice: 150}}
	m := ComputeMetrics(holdings, Prices{"AAPL": 0}, testSectors)

	assert.Equal(t, 0.0, m.TotalValue)
	assert.Empty(t, m.SectorAllocations)
	assert.Equal(t, 0.0, m.DiversificationScore)
}

func TestComputeMetrics_UnknownSymbolIsOther(t *testing.T) {
	holdings := []models.Holding{{Symbol: "ZZZZ", Shares: 1, PurchasePrice: 10}}
	m := ComputeMetrics(holdings, nil, testSectors)

	require.Len(t, m.SectorAllocations, 1)
	assert.Equal(t, models.SectorOther, m.SectorAllocations[0].Sector)
}

func TestComputeMetrics_NilCatalog(t *testing.T) {
	holdings := []models.Holding{{Symbol: "AAPL", Shares: 1, PurchasePrice: 10}}
	m := ComputeMetrics(holdings, nil, nil)

	require.Len(t, m.SectorAllocations, 1)
	assert.Equal(t, models.SectorOther, m.SectorAllocations[0].Sector)
}

func TestComputeMetrics_SectorOrderAndAggregation(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "JPM", Shares: 1, PurchasePrice: 100},
		{Symbol: "AAPL", Shares: 1, PurchasePrice: 100},
		{Symbol: "BAC", Shares: 2, PurchasePrice: 100},
		{Symbol: "JPM", Shares: 1, PurchasePrice: 100},
	}
	m := ComputeMetrics(holdings, nil, testSectors)

	require.Len(t, m.SectorAllocations, 2)
	assert.Equal(t, "Financial", m.SectorAllocations[0].Sector)
	assert.InDelta(t, 400.0, m.SectorAllocations[0].Value, 1e-9)
	assert.InDelta(t, 80.0, m.SectorAllocations[0].Percentage, 1e-9)
	assert.Equal(t, "Technology", m.SectorAllocations[1].Sector)
	assert.InDelta(t, 20.0, m.SectorAllocations[1].Percentage, 1e-9)
	// 2*10 + (100 - 80)
	assert.InDelta(t, 40.0, m.DiversificationScore, 1e-9)
}

func TestDiversificationScore_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		pcts   []float64
		expect float64
	}{
		{"no sectors", nil, 0},
		{"single sector", []float64{100}, 10},
		{"two even", []float64{50, 50}, 70},
		{"capped at 100", []float64{25, 25, 25, 25}, 100},
		{"negative clamps to zero", []float64{150}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var allocs []models.SectorAllocation
			for _, p := range tt.pcts {
				allocs = append(allocs, models.SectorAllocation{Sector: "S", Percentage: p})
			}
			assert.InDelta(t, tt.expect, DiversificationScore(allocs), 1e-9)
		})
	}
}

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score  float64
		expect models.RiskLevel
	}{
		{100, models.RiskLow},
		{80, models.RiskLow},
		{79.99, models.RiskModerate},
		{60, models.RiskModerate},
		{59.99, models.RiskHigh},
		{0, models.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, RiskLevelFor(tt.score), "score %.2f", tt.score)
	}
}

func TestComputeMetrics_RandomisedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	symbols := []string{"AAPL", "GOOGL", "MSFT", "JPM", "BAC", "XOM", "JNJ", "PG", "AMZN", "NOPE"}

	for i := 0; i < 200; i++ {
		n := rng.Intn(12)
		holdings := make([]models.Holding, n)
		prices := Prices{}
		for j := range holdings {
			sym := symbols[rng.Intn(len(symbols))]
			holdings[j] = models.Holding{
				Symbol:        sym,
				Shares:        float64(rng.Intn(500) + 1),
				PurchasePrice: rng.Float64() * 500,
			}
			if rng.Intn(2) == 0 {
				prices[sym] = rng.Float64() * 500
			}
		}

		m := ComputeMetrics(holdings, prices, testSectors)

		assert.GreaterOrEqual(t, m.DiversificationScore, 0.0)
		assert.LessOrEqual(t, m.DiversificationScore, 100.0)
		assert.Equal(t, RiskLevelFor(m.DiversificationScore), m.RiskLevel)

		if m.TotalValue > 0 {
			sum := 0.0
			for _, a := range m.SectorAllocations {
				sum += a.Value
			}
			assert.InDelta(t, m.TotalValue, sum, 1e-6)
		}

		again := ComputeMetrics(holdings, prices, testSectors)
		assert.Equal(t, m, again)
		assert.Equal(t, GenerateRecommendations(m, n), GenerateRecommendations(again, n))
	}
}
