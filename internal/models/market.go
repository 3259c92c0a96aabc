package models

import "time"

// Quote is a static reference price for a symbol.
type Quote struct {
	Symbol        string  `json:"symbol" toml:"symbol"`
	Price         float64 `json:"price" toml:"price"`
	Change        float64 `json:"change" toml:"change"`
	ChangePercent float64 `json:"changePercent" toml:"change_percent"`
}

// NewsItem is a single entry in the news feed.
type NewsItem struct {
	Title       string    `json:"title" toml:"title"`
	URL         string    `json:"url" toml:"url"`
	Source      string    `json:"source" toml:"source"`
	PublishedAt time.Time `json:"publishedAt" toml:"published_at"`
	Symbols     []string  `json:"symbols,omitempty" toml:"symbols"`
}
