// Package options evaluates single-leg option positions at expiry.
package options

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	// CurvePoints is the number of prices sampled for the payoff curve.
	CurvePoints = 21

	// curveRange is the fraction of the current price shown either side of it.
	curveRange = 0.5
)

// Service implements OptionsService
type Service struct {
	logger *common.Logger
}

// NewService creates a new options service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// Validate checks a position before it is evaluated.
func Validate(pos models.OptionPosition) error {
	if pos.Type != models.OptionCall && pos.Type != models.OptionPut {
		return fmt.Errorf("%w: type must be call or put, got %q", models.ErrInvalidOption, pos.Type)
	}
	for name, v := range map[string]float64{
		"current_price": pos.CurrentPrice,
		"strike_price":  pos.StrikePrice,
		"premium":       pos.Premium,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", models.ErrInvalidOption, name)
		}
	}
	if pos.Contracts < 1 {
		return fmt.Errorf("%w: contracts must be at least 1", models.ErrInvalidOption)
	}
	return nil
}

// Profit returns the position's profit at expiry if the underlying trades at price.
func Profit(pos models.OptionPosition, price float64) float64 {
	var intrinsic float64
	if pos.Type == models.OptionCall {
		intrinsic = math.Max(0, price-pos.StrikePrice)
	} else {
		intrinsic = math.Max(0, pos.StrikePrice-price)
	}
	return (intrinsic - pos.Premium) * float64(pos.Contracts) * models.ContractMultiplier
}

// BreakEven is strike plus premium for calls, strike minus premium for puts.
func BreakEven(pos models.OptionPosition) float64 {
	if pos.Type == models.OptionCall {
		return pos.StrikePrice + pos.Premium
	}
	return pos.StrikePrice - pos.Premium
}

// Curve samples Profit at CurvePoints prices spanning current price ±50%.
func Curve(pos models.OptionPosition) []models.PayoffPoint {
	prices := make([]float64, CurvePoints)
	floats.Span(prices, pos.CurrentPrice*(1-curveRange), pos.CurrentPrice*(1+curveRange))

	curve := make([]models.PayoffPoint, len(prices))
	for i, p := range prices {
		curve[i] = models.PayoffPoint{
			Price:  roundCents(p),
			Profit: roundCents(Profit(pos, p)),
		}
	}
	return curve
}

func (s *Service) Calculate(pos models.OptionPosition) (*models.OptionAnalysis, error) {
	if err := Validate(pos); err != nil {
		return nil, err
	}

	maxLoss := pos.Premium * float64(pos.Contracts) * models.ContractMultiplier
	analysis := &models.OptionAnalysis{
		Position:        pos,
		MaxLoss:         roundCents(maxLoss),
		BreakEven:       roundCents(BreakEven(pos)),
		CostPerContract: roundCents(pos.Premium * models.ContractMultiplier),
		TotalCost:       roundCents(maxLoss),
		CurrentProfit:   roundCents(Profit(pos, pos.CurrentPrice)),
		Curve:           Curve(pos),
	}

	s.logger.Debug().
		Str("type", string(pos.Type)).
		Float64("strike", pos.StrikePrice).
		Float64("break_even", analysis.BreakEven).
		Msg("Option position evaluated")

	return analysis, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compile-time check
var _ interfaces.OptionsService = (*Service)(nil)
