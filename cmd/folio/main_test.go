package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd.Execute(context.Background(), fs)
}

func TestAnalyze_Document(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	path := writeFile(t, "portfolio.json", `{"stocks":[{"symbol":"aapl","shares":10,"purchasePrice":150}],"investmentGoal":3508.6,"targetDate":"2030-01-11"}`)

	var out bytes.Buffer
	cmd := &analyzeCmd{
		out: &out,
		now: func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
	status := execute(t, cmd, "-f", path, "-raw")
	require.Equal(t, subcommands.ExitSuccess, status)

	report := out.String()
	assert.Contains(t, report, "| AAPL | Technology | 10 | $150.00 | $175.43 | $1,754.30 | +$254.30 | +16.95% |")
	assert.Contains(t, report, "Savings Goal")
}

func TestAnalyze_BareHoldingsArray(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	path := writeFile(t, "holdings.json", `[{"symbol":"MSFT","shares":1,"purchasePrice":300}]`)

	var out bytes.Buffer
	status := execute(t, &analyzeCmd{out: &out}, "-f", path, "-raw")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "| MSFT |")
}

func TestAnalyze_InvalidHolding(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	path := writeFile(t, "bad.json", `[{"symbol":"MSFT","shares":-1,"purchasePrice":300}]`)

	status := execute(t, &analyzeCmd{out: &bytes.Buffer{}}, "-f", path, "-raw")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestAnalyze_MissingFile(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	status := execute(t, &analyzeCmd{out: &bytes.Buffer{}}, "-f", filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestOptions_PrintsCurveAndChart(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "payoff.png")

	var out bytes.Buffer
	status := execute(t, &optionsCmd{out: &out}, "-type", "CALL", "-current", "100", "-strike", "110", "-premium", "5", "-chart", chart, "-raw")
	require.Equal(t, subcommands.ExitSuccess, status)

	text := out.String()
	assert.Contains(t, text, "# CALL Option")
	assert.Contains(t, text, "| Max Loss | $500.00 |")
	assert.Contains(t, text, "| Break-even | $115.00 |")
	assert.Equal(t, 21, strings.Count(text, "\n| $"))

	png, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestOptions_Invalid(t *testing.T) {
	status := execute(t, &optionsCmd{out: &bytes.Buffer{}}, "-type", "swap")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestExif_NoMetadata(t *testing.T) {
	path := writeFile(t, "notes.txt", "plain text")

	var out bytes.Buffer
	status := execute(t, &exifCmd{out: &out}, "-raw", path)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "_No metadata found._")
}

func TestExif_Errors(t *testing.T) {
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &exifCmd{out: &bytes.Buffer{}}))
	assert.Equal(t, subcommands.ExitFailure, execute(t, &exifCmd{out: &bytes.Buffer{}}, filepath.Join(t.TempDir(), "missing.jpg")))
}
