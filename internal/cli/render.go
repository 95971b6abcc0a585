package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/pipeline"
	"github.com/openpit/blastgrid/pkg/view"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file (or base path for multiple formats)
	formats  string  // comma-separated formats
	width    float64 // viewport width override
	height   float64 // viewport height override
	zoom     float64 // zoom factor about the viewport centre
	panX     float64 // pan in pixels
	panY     float64
	fit      bool // fit the view to the pattern before zoom and pan
	saveView bool // write the adjusted view back to the project
	noCache  bool
	refresh  bool
	pipeline.Options
}

// renderCommand creates the render command, which draws the pattern plan.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [project]",
		Short: "Render the pattern plan to SVG, PNG or JSON",
		Long: `Render the pattern plan: spacing × burden grid, rulers and drill points.

The project's saved view (scale, pan and viewport) is used unless adjusted
with --fit, --zoom or --pan. Rendered files are cached by project content.`,
		Example: `  blastgrid render bench-420.toml
  blastgrid render bench-420.toml -f svg,png --precise --legend
  blastgrid render bench-420.toml --fit --zoom 1.2 --save-view`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width in pixels (default: from project)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height in pixels (default: from project)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 1, "zoom factor about the viewport centre")
	cmd.Flags().Float64Var(&opts.panX, "pan-x", 0, "pan right by pixels")
	cmd.Flags().Float64Var(&opts.panY, "pan-y", 0, "pan down by pixels")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "fit the view to the pattern")
	cmd.Flags().BoolVar(&opts.saveView, "save-view", false, "save the adjusted view to the project")
	cmd.Flags().BoolVar(&opts.Precise, "precise", false, "mark grid intersections")
	cmd.Flags().BoolVar(&opts.HideRulers, "no-rulers", false, "hide the rulers")
	cmd.Flags().BoolVar(&opts.Legend, "legend", false, "draw a summary legend")
	cmd.Flags().StringVar(&opts.Title, "title", "", "SVG document title (default: project name)")
	cmd.Flags().StringVar(&opts.Selected, "select", "", "highlight the point with this id")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	p, err := c.loadProject(path)
	if err != nil {
		return err
	}

	opts.Formats = parseFormats(opts.formats, pipeline.FormatSVG)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if opts.Title == "" {
		opts.Title = p.Name
	}
	opts.Refresh = opts.refresh
	opts.Logger = c.Logger
	adjustView(p, opts)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := withSpinner(ctx, "Rendering pattern...", func() (*pipeline.Result, error) {
		return runner.RenderProject(ctx, p, opts.Options)
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d holes", result.Stats.Holes))

	multiple := len(opts.Formats) > 1
	for _, format := range opts.Formats {
		out := outputPath(opts.output, path, "", "."+format, multiple)
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	printStats(result.Stats.Holes, result.Stats.CustomDepth, 0, result.CacheInfo.ArtifactHit)
	if result.Render != nil {
		for _, f := range result.Render.Failed {
			printWarning("layer %s failed and was left empty", f)
		}
	}

	if opts.saveView {
		if err := p.Save(path); err != nil {
			return err
		}
		printDetail("view saved to %s", path)
	}
	return nil
}

// adjustView applies the viewport override, fit, zoom and pan flags to the
// project's view.
func adjustView(p *pattern.Project, opts renderOpts) {
	p.View = opts.ViewFor(p.View)
	if opts.fit && len(p.Points) > 0 {
		fitView(p)
	}
	vt := view.New(p.View)
	if opts.zoom > 0 && opts.zoom != 1 {
		vt.ZoomAt(opts.zoom, (p.View.Width+view.RulerSize)/2, (p.View.Height+view.RulerSize)/2)
	}
	if opts.panX != 0 || opts.panY != 0 {
		vt.Pan(opts.panX, opts.panY)
	}
	p.View = vt.State()
}
