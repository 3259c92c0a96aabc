package portfolio

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/analytics"
	"github.com/bobmcallan/folio/internal/models"
)

// MaxSymbolLength bounds ticker symbols accepted from callers.
const MaxSymbolLength = 16

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeHolding validates a holding and returns it with its symbol normalised.
func NormalizeHolding(h models.Holding) (models.Holding, error) {
	h.Symbol = NormalizeSymbol(h.Symbol)
	if h.Symbol == "" {
		return h, fmt.Errorf("%w: symbol is required", models.ErrInvalidHolding)
	}
	if len(h.Symbol) > MaxSymbolLength {
		return h, fmt.Errorf("%w: symbol exceeds %d characters", models.ErrInvalidHolding, MaxSymbolLength)
	}
	if !finite(h.Shares) || h.Shares <= 0 {
		return h, fmt.Errorf("%w: shares must be greater than zero", models.ErrInvalidHolding)
	}
	if !finite(h.PurchasePrice) || h.PurchasePrice < 0 {
		return h, fmt.Errorf("%w: purchase price must not be negative", models.ErrInvalidHolding)
	}
	return h, nil
}

// ValidateGoal checks the goal amount and returns the trimmed target date.
func ValidateGoal(goal float64, targetDate string) (string, error) {
	if !finite(goal) || goal < 0 {
		return "", fmt.Errorf("%w: goal must not be negative", models.ErrInvalidGoal)
	}
	targetDate = strings.TrimSpace(targetDate)
	if targetDate == "" {
		return "", nil
	}
	if _, err := time.Parse(analytics.DateLayout, targetDate); err != nil {
		return "", fmt.Errorf("%w: target date must be YYYY-MM-DD", models.ErrInvalidGoal)
	}
	return targetDate, nil
}
