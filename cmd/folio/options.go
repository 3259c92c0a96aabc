package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/options"
)

// optionsCmd prints the profit/loss profile of an option position.
type optionsCmd struct {
	pos      models.OptionPosition
	optType  string
	chart    string
	currency string
	raw      bool
	out      io.Writer
}

func (*optionsCmd) Name() string     { return "options" }
func (*optionsCmd) Synopsis() string { return "calculate option profit and loss" }
func (*optionsCmd) Usage() string {
	return `folio options -type call|put -current <price> -strike <price> -premium <price> [-contracts N] [-chart out.png]

  Prints max loss, break-even and the payoff curve across current price +/-50%.
`
}

func (c *optionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.optType, "type", "call", "Option type: call or put")
	f.Float64Var(&c.pos.CurrentPrice, "current", 100, "Current price of the underlying")
	f.Float64Var(&c.pos.StrikePrice, "strike", 110, "Strike price")
	f.Float64Var(&c.pos.Premium, "premium", 5, "Premium paid per share")
	f.IntVar(&c.pos.Contracts, "contracts", 1, "Number of contracts (100 shares each)")
	f.StringVar(&c.chart, "chart", "", "Write the payoff chart PNG to this file")
	f.StringVar(&c.currency, "currency", "USD", "Currency used for formatting")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling")
}

func (c *optionsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.pos.Type = models.OptionType(strings.ToLower(c.optType))

	svc := options.NewService(common.NewSilentLogger())
	analysis, err := svc.Calculate(c.pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.chart != "" {
		png, err := svc.PayoffChart(analysis)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.chart, png, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	if err := printMarkdown(out, formatOptions(analysis, c.currency), c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func formatOptions(a *models.OptionAnalysis, currency string) string {
	var sb strings.Builder
	p := a.Position

	fmt.Fprintf(&sb, "# %s Option\n\n", strings.ToUpper(string(p.Type)))
	fmt.Fprintf(&sb, "| | |\n|---|---:|\n")
	fmt.Fprintf(&sb, "| Current Price | %s |\n", common.FormatMoney(p.CurrentPrice, currency))
	fmt.Fprintf(&sb, "| Strike Price | %s |\n", common.FormatMoney(p.StrikePrice, currency))
	fmt.Fprintf(&sb, "| Contracts | %d |\n", p.Contracts)
	fmt.Fprintf(&sb, "| Cost per Contract | %s |\n", common.FormatMoney(a.CostPerContract, currency))
	fmt.Fprintf(&sb, "| Max Loss | %s |\n", common.FormatMoney(a.MaxLoss, currency))
	fmt.Fprintf(&sb, "| Break-even | %s |\n", common.FormatMoney(a.BreakEven, currency))
	fmt.Fprintf(&sb, "| P/L at Current Price | %s |\n\n", common.FormatSignedMoney(a.CurrentProfit, currency))

	sb.WriteString("## Payoff at Expiry\n\n")
	sb.WriteString("| Price | Profit/Loss |\n|---:|---:|\n")
	for _, pt := range a.Curve {
		fmt.Fprintf(&sb, "| %s | %s |\n", common.FormatMoney(pt.Price, currency), common.FormatSignedMoney(pt.Profit, currency))
	}
	return sb.String()
}
