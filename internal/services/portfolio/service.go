// Package portfolio manages the per-user portfolio document and its analytics.
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/analytics"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	prices  interfaces.QuoteProvider
	catalog interfaces.SectorCatalog
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a new portfolio service
func NewService(
	storage interfaces.StorageManager,
	prices interfaces.QuoteProvider,
	catalog interfaces.SectorCatalog,
	logger *common.Logger,
) *Service {
	return &Service{
		storage: storage,
		prices:  prices,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockUser serialises read-modify-write cycles for one user.
func (s *Service) lockUser(userID string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Load holds the user lock because a first read writes the default document.
func (s *Service) Load(ctx context.Context) (*models.Portfolio, error) {
	userID := common.ResolveUserID(ctx)
	unlock := s.lockUser(userID)
	defer unlock()

	p, _, err := s.load(ctx, userID)
	return p, err
}

// load returns the stored document and its version, creating the default
// document on first access. Callers must hold the user lock.
func (s *Service) load(ctx context.Context, userID string) (*models.Portfolio, int, error) {
	rec, err := s.storage.UserDataStore().Get(ctx, userID, models.SubjectPortfolio, models.DefaultRecordKey)
	if errors.Is(err, models.ErrNotFound) {
		p := models.NewDefaultPortfolio()
		if err := s.put(ctx, userID, p, 1); err != nil {
			return nil, 0, fmt.Errorf("failed to create default portfolio: %w", err)
		}
		s.logger.Info().Str("user_id", userID).Msg("Created default portfolio")
		return p, 1, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load portfolio: %w", err)
	}

	var p models.Portfolio
	if err := json.Unmarshal([]byte(rec.Value), &p); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal portfolio: %w", err)
	}
	if p.Stocks == nil {
		p.Stocks = []models.Holding{}
	}
	return &p, rec.Version, nil
}

func (s *Service) put(ctx context.Context, userID string, p *models.Portfolio, version int) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio: %w", err)
	}
	return s.storage.UserDataStore().Put(ctx, &models.UserRecord{
		UserID:   userID,
		Subject:  models.SubjectPortfolio,
		Key:      models.DefaultRecordKey,
		Value:    string(data),
		Version:  version,
		DateTime: s.now(),
	})
}

func (s *Service) Save(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: portfolio is required", models.ErrInvalidHolding)
	}
	doc := &models.Portfolio{Stocks: make([]models.Holding, 0, len(p.Stocks))}
	for _, h := range p.Stocks {
		h, err := NormalizeHolding(h)
		if err != nil {
			return nil, err
		}
		doc.Stocks = append(doc.Stocks, h)
	}
	targetDate, err := ValidateGoal(p.InvestmentGoal, p.TargetDate)
	if err != nil {
		return nil, err
	}
	doc.InvestmentGoal = p.InvestmentGoal
	doc.TargetDate = targetDate

	userID := common.ResolveUserID(ctx)
	unlock := s.lockUser(userID)
	defer unlock()

	_, version, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, userID, doc, version)
}

// save writes p as the next version. On failure the last stored document is
// re-read and returned alongside an error wrapping models.ErrSaveFailed.
// Callers must hold the user lock.
func (s *Service) save(ctx context.Context, userID string, p *models.Portfolio, prevVersion int) (*models.Portfolio, error) {
	if p.Stocks == nil {
		p.Stocks = []models.Holding{}
	}
	version := prevVersion + 1

	if err := s.put(ctx, userID, p, version); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to save portfolio")

		current, _, loadErr := s.load(ctx, userID)
		if loadErr != nil {
			s.logger.Warn().Err(loadErr).Str("user_id", userID).Msg("Failed to resync portfolio after save failure")
			return nil, fmt.Errorf("%w: %v", models.ErrSaveFailed, err)
		}
		return current, fmt.Errorf("%w: %v", models.ErrSaveFailed, err)
	}

	s.recordVersion(ctx, userID, p, version)

	s.logger.Debug().Str("user_id", userID).Int("version", version).Int("holdings", len(p.Stocks)).Msg("Portfolio saved")
	return p, nil
}

func (s *Service) AddHolding(ctx context.Context, h models.Holding) (*models.Portfolio, error) {
	h, err := NormalizeHolding(h)
	if err != nil {
		return nil, err
	}

	userID := common.ResolveUserID(ctx)
	unlock := s.lockUser(userID)
	defer unlock()

	p, version, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Stocks = append(p.Stocks, h)

	s.logger.Info().Str("user_id", userID).Str("symbol", h.Symbol).Float64("shares", h.Shares).Msg("Holding added")
	return s.save(ctx, userID, p, version)
}

func (s *Service) RemoveHolding(ctx context.Context, symbol string) (*models.Portfolio, error) {
	symbol = NormalizeSymbol(symbol)

	userID := common.ResolveUserID(ctx)
	unlock := s.lockUser(userID)
	defer unlock()

	p, version, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]models.Holding, 0, len(p.Stocks))
	for _, h := range p.Stocks {
		if h.Symbol != symbol {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(p.Stocks) {
		return nil, fmt.Errorf("holding '%s': %w", symbol, models.ErrNotFound)
	}
	removed := len(p.Stocks) - len(kept)
	p.Stocks = kept

	s.logger.Info().Str("user_id", userID).Str("symbol", symbol).Int("removed", removed).Msg("Holdings removed")
	return s.save(ctx, userID, p, version)
}

func (s *Service) SetGoal(ctx context.Context, goal float64, targetDate string) (*models.Portfolio, error) {
	targetDate, err := ValidateGoal(goal, targetDate)
	if err != nil {
		return nil, err
	}

	userID := common.ResolveUserID(ctx)
	unlock := s.lockUser(userID)
	defer unlock()

	p, version, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.InvestmentGoal = goal
	p.TargetDate = targetDate

	return s.save(ctx, userID, p, version)
}

func (s *Service) Overview(ctx context.Context) (*models.PortfolioOverview, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	currency := common.ResolveDisplayCurrency(ctx, s.prices.Currency())
	overview := analytics.SummarizeHoldings(p.Stocks, s.prices, s.catalog, currency, s.now())
	return &overview, nil
}

func (s *Service) Analyze(ctx context.Context) (*models.PortfolioAnalysis, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	analysis := analytics.Analyze(p.Stocks, s.prices, s.catalog)
	return &analysis, nil
}

func (s *Service) GoalProgress(ctx context.Context) (*models.GoalProgress, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	metrics := analytics.ComputeMetrics(p.Stocks, s.prices, s.catalog)
	progress := analytics.ComputeGoalProgress(metrics.TotalValue, p.InvestmentGoal, p.TargetDate, s.now())
	return &progress, nil
}

// Compile-time check
var _ interfaces.PortfolioService = (*Service)(nil)
