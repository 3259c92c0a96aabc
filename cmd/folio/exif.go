package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/metadata"
)

// exifCmd prints the embedded metadata of one or more images.
type exifCmd struct {
	raw bool
	out io.Writer
}

func (*exifCmd) Name() string     { return "exif" }
func (*exifCmd) Synopsis() string { return "show image EXIF metadata" }
func (*exifCmd) Usage() string {
	return `folio exif [-raw] <image> [<image>...]

  Prints camera, exposure, image, date and GPS tags grouped for reading.
`
}

func (c *exifCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling")
}

func (c *exifCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one image path is required")
		return subcommands.ExitUsageError
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}

	svc := metadata.NewService(common.NewSilentLogger())
	status := subcommands.ExitSuccess
	for _, name := range f.Args() {
		md, err := extractFile(svc, name)
		if err != nil {
			if errors.Is(err, models.ErrNoMetadata) {
				md = fmt.Sprintf("# %s\n\n_No metadata found._\n", filepath.Base(name))
			} else {
				fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", name, err)
				status = subcommands.ExitFailure
				continue
			}
		}
		if err := printMarkdown(out, md, c.raw); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return status
}

func extractFile(svc *metadata.Service, name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	result, err := svc.Extract(filepath.Base(name), f)
	if err != nil {
		return "", err
	}
	return formatMetadata(result), nil
}

func formatMetadata(m *models.ImageMetadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m.FileName)
	fmt.Fprintf(&sb, "%d tags, %d bytes\n\n", m.TagCount, m.Size)
	for _, g := range m.Groups {
		fmt.Fprintf(&sb, "## %s\n\n| Tag | Value |\n|---|---|\n", g.Name)
		for _, tag := range g.Tags {
			fmt.Fprintf(&sb, "| %s | %s |\n", tag.Name, strings.ReplaceAll(tag.Value, "|", `\|`))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
