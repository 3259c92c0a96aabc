package portfolio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// maxHistoryVersions is the auto-prune limit for saved versions.
const maxHistoryVersions = 50

func versionKey(version int) string {
	return fmt.Sprintf("v%08d", version)
}

// recordVersion stores a copy of a saved document. Failures are logged only;
// the primary save has already succeeded.
func (s *Service) recordVersion(ctx context.Context, userID string, p *models.Portfolio, version int) {
	saved := models.PortfolioVersion{Version: version, SavedAt: s.now(), Portfolio: *p}
	data, err := json.Marshal(saved)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to marshal portfolio version")
		return
	}

	store := s.storage.UserDataStore()
	if err := store.Put(ctx, &models.UserRecord{
		UserID:   userID,
		Subject:  models.SubjectPortfolioHistory,
		Key:      versionKey(version),
		Value:    string(data),
		Version:  version,
		DateTime: saved.SavedAt,
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Int("version", version).Msg("Failed to record portfolio version")
		return
	}

	s.pruneHistory(ctx, userID, version-maxHistoryVersions)
}

// pruneHistory deletes every saved version at or below cutoff, including
// entries left behind by an earlier failed prune.
func (s *Service) pruneHistory(ctx context.Context, userID string, cutoff int) {
	if cutoff <= 0 {
		return
	}
	store := s.storage.UserDataStore()
	recs, err := store.List(ctx, userID, models.SubjectPortfolioHistory)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to list portfolio history for pruning")
		return
	}
	for _, rec := range recs {
		if rec.Version > cutoff {
			continue
		}
		if err := store.Delete(ctx, userID, models.SubjectPortfolioHistory, rec.Key); err != nil {
			s.logger.Warn().Err(err).Int("version", rec.Version).Msg("Failed to prune portfolio version")
		}
	}
}

func (s *Service) History(ctx context.Context, limit int) ([]models.PortfolioVersion, error) {
	userID := common.ResolveUserID(ctx)
	recs, err := s.storage.UserDataStore().Query(ctx, userID, models.SubjectPortfolioHistory, interfaces.QueryOptions{
		Limit:   limit,
		OrderBy: "datetime_desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio history: %w", err)
	}

	out := make([]models.PortfolioVersion, 0, len(recs))
	for _, rec := range recs {
		var v models.PortfolioVersion
		if err := json.Unmarshal([]byte(rec.Value), &v); err != nil {
			s.logger.Warn().Err(err).Str("key", rec.Key).Msg("Skipping unreadable portfolio version")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) DeleteAll(ctx context.Context) error {
	userID := common.ResolveUserID(ctx)
	unlock := s.lockUser(userID)
	defer unlock()

	store := s.storage.UserDataStore()
	versions, err := store.List(ctx, userID, models.SubjectPortfolioHistory)
	if err != nil {
		return fmt.Errorf("failed to list portfolio history: %w", err)
	}
	for _, rec := range versions {
		if err := store.Delete(ctx, userID, rec.Subject, rec.Key); err != nil {
			return fmt.Errorf("failed to delete portfolio version %s: %w", rec.Key, err)
		}
	}
	if err := store.Delete(ctx, userID, models.SubjectPortfolio, models.DefaultRecordKey); err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Int("versions", len(versions)).Msg("Portfolio deleted")
	return nil
}
