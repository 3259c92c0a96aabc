// Package news serves the configured news feed.
package news

import (
	"sort"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements NewsService over a fixed list of items.
type Service struct {
	items  []models.NewsItem
	logger *common.Logger
}

// NewService copies items and orders them newest first.
func NewService(items []models.NewsItem, logger *common.Logger) *Service {
	sorted := make([]models.NewsItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	logger.Debug().Int("items", len(sorted)).Msg("News feed loaded")
	return &Service{items: sorted, logger: logger}
}

// Latest returns up to limit items (0 = all), newest first. When symbols is
// non-empty only items tagged with one of them are returned; untagged items
// are market-wide and always included.
func (s *Service) Latest(limit int, symbols []string) []models.NewsItem {
	wanted := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			wanted[sym] = true
		}
	}

	out := []models.NewsItem{}
	for _, item := range s.items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if len(wanted) > 0 && !matches(item, wanted) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matches(item models.NewsItem, wanted map[string]bool) bool {
	if len(item.Symbols) == 0 {
		return true
	}
	for _, sym := range item.Symbols {
		if wanted[strings.ToUpper(sym)] {
			return true
		}
	}
	return false
}

// Compile-time check
var _ interfaces.NewsService = (*Service)(nil)
