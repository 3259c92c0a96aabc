package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
)

// loadConfig resolves the config file the same way the server does.
func loadConfig() (*common.Config, error) {
	return common.LoadConfig(app.ResolveConfigPath(*configPath))
}

// printMarkdown renders markdown for the terminal, or writes it untouched when raw is set.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
