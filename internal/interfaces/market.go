package interfaces

import "github.com/bobmcallan/folio/internal/models"

// PriceLookup resolves the current price for a symbol.
// ok is false when no price is known and the caller should fall back.
type PriceLookup interface {
	Price(symbol string) (price float64, ok bool)
}

// SectorCatalog maps a symbol to its sector name.
type SectorCatalog interface {
	Sector(symbol string) string
}

// QuoteProvider lists the reference quotes that back a PriceLookup.
type QuoteProvider interface {
	PriceLookup
	Quotes() []models.Quote
	Currency() string
}
