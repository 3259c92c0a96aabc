package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *portfolio.Service) {
	t.Helper()
	mgr, err := sqlite.NewManager(common.NewSilentLogger(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	cfg := common.NewDefaultConfig()
	ps := portfolio.NewService(mgr, market.NewQuoteTableFromConfig(cfg.Market), market.NewSectorTable(cfg.Market.Sectors), common.NewSilentLogger())
	return NewService(ps, common.NewSilentLogger()), ps
}

func TestService_Markdown(t *testing.T) {
	svc, ps := newTestService(t)
	ctx := common.WithUserContext(context.Background(), &common.UserContext{UserID: "alice"})

	_, err := ps.AddHolding(ctx, models.Holding{Symbol: "AAPL", Shares: 10, PurchasePrice: 150})
	require.NoError(t, err)

	md, err := svc.Markdown(ctx)
	require.NoError(t, err)
	assert.Contains(t, md, "| AAPL | Technology | 10 |")
	assert.Contains(t, md, "**Total Value:** $1,754.30")
}

func TestService_HTML(t *testing.T) {
	svc, ps := newTestService(t)
	ctx := common.WithUserContext(context.Background(), &common.UserContext{UserID: "alice"})

	_, err := ps.AddHolding(ctx, models.Holding{Symbol: "JPM", Shares: 4, PurchasePrice: 140})
	require.NoError(t, err)

	html, err := svc.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Portfolio Report</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>JPM</td>")
	assert.Contains(t, html, "<li>")
}
