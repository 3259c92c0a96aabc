// Command folio runs the portfolio analytics, options and image metadata tools from the terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var configPath = flag.String("config", "", "Path to folio.toml (defaults to FOLIO_CONFIG or config/folio.toml)")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&analyzeCmd{}, "portfolio")
	commander.Register(&optionsCmd{}, "tools")
	commander.Register(&exifCmd{}, "tools")
	commander.Register(&versionCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
