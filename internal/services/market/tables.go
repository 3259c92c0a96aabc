// Package market provides the static price and sector reference tables.
package market

import (
	"sort"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// QuoteTable is an immutable symbol to quote lookup.
type QuoteTable struct {
	quotes   map[string]models.Quote
	currency string
}

// NewQuoteTable builds a table from the given quotes. Symbols are upper-cased;
// later entries replace earlier ones with the same symbol.
func NewQuoteTable(quotes []models.Quote, currency string) *QuoteTable {
	t := &QuoteTable{
		quotes:   make(map[string]models.Quote, len(quotes)),
		currency: strings.ToUpper(currency),
	}
	for _, q := range quotes {
		q.Symbol = strings.ToUpper(strings.TrimSpace(q.Symbol))
		if q.Symbol == "" {
			continue
		}
		t.quotes[q.Symbol] = q
	}
	return t
}

// NewQuoteTableFromConfig builds the table from the [market] section.
func NewQuoteTableFromConfig(cfg common.MarketConfig) *QuoteTable {
	return NewQuoteTable(cfg.Quotes, cfg.Currency)
}

func (t *QuoteTable) Price(symbol string) (float64, bool) {
	q, ok := t.quotes[strings.ToUpper(symbol)]
	if !ok {
		return 0, false
	}
	return q.Price, true
}

// Quotes returns all quotes sorted by symbol.
func (t *QuoteTable) Quotes() []models.Quote {
	out := make([]models.Quote, 0, len(t.quotes))
	for _, q := range t.quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (t *QuoteTable) Currency() string {
	return t.currency
}

// SectorTable is an immutable symbol to sector lookup.
type SectorTable struct {
	sectors map[string]string
}

func NewSectorTable(sectors map[string]string) *SectorTable {
	t := &SectorTable{sectors: make(map[string]string, len(sectors))}
	for sym, sector := range sectors {
		sector = strings.TrimSpace(sector)
		if sector == "" {
			continue
		}
		t.sectors[strings.ToUpper(strings.TrimSpace(sym))] = sector
	}
	return t
}

// Sector returns the symbol's sector, or models.SectorOther when unknown.
func (t *SectorTable) Sector(symbol string) string {
	if s, ok := t.sectors[strings.ToUpper(symbol)]; ok {
		return s
	}
	return models.SectorOther
}

// Len reports how many symbols the table knows.
func (t *SectorTable) Len() int {
	return len(t.sectors)
}

// Compile-time checks
var (
	_ interfaces.QuoteProvider = (*QuoteTable)(nil)
	_ interfaces.SectorCatalog = (*SectorTable)(nil)
)
