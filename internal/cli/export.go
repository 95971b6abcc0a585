package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/export"
)

// exportCommand creates the export command, which writes surveyed holes for
// CAD and GIS tools.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "export [project]",
		Short: "Export collars and hole traces to DXF or GeoJSON",
		Long: `Export hole collars and traces in site grid coordinates.

DXF output has separate layers for collars, traces, labels and the pattern
bounds. GeoJSON output has a Point feature per collar and a LineString per
surveyed trace. Holes without usable coordinates are skipped.`,
		Example: `  blastgrid export bench-420.toml
  blastgrid export bench-420.toml -f dxf,geojson -o out/bench-420`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], output, parseFormats(formats, export.FormatDXF), noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "export format(s): dxf (default), geojson (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-export even if cached")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, path, output string, formats []string, noCache, refresh bool) error {
	for _, f := range formats {
		if err := export.ValidateFormat(f); err != nil {
			return err
		}
	}
	p, err := c.loadProject(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	multiple := len(formats) > 1
	cached := true
	for _, format := range formats {
		data, hit, err := runner.Export(ctx, p, format, refresh)
		if err != nil {
			return err
		}
		cached = cached && hit
		out := outputPath(output, path, "", export.Extension(format), multiple)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}

	traces, skipped := export.Traces(p.SurveyPoints())
	printStats(len(traces), 0, len(skipped), cached)
	if len(skipped) > 0 {
		printDetail("skipped: %v", skipped)
	}
	return nil
}
