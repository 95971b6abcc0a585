package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/view"
)

// newOpts holds the command-line flags for the new command.
type newOpts struct {
	name     string
	settings pattern.Settings
	grid     pattern.GridOptions
	origin   pattern.Origin
	width    float64 // viewport width in pixels
	height   float64 // viewport height in pixels
	fit      bool    // fit the view to the generated pattern
	force    bool    // overwrite an existing file
}

// newCommand creates the "new" command, which writes a project with a
// generated rectangular pattern.
func (c *CLI) newCommand() *cobra.Command {
	opts := newOpts{
		settings: pattern.DefaultSettings(),
		grid:     pattern.GridOptions{Rows: 3, Holes: 6, OriginX: 2, OriginY: 2},
		width:    800,
		height:   600,
		fit:      true,
	}

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a project with a generated pattern",
		Long: `Create a project file with a rectangular blast pattern.

Rows run east along the spacing and are separated by the burden. Holes are
named by row letter and position (A1, A2, …, B1, …). Use --rows 0 for an
empty project.`,
		Example: `  blastgrid new bench-420.toml --rows 4 --holes 8 --spacing 4.5 --burden 3.8
  blastgrid new bench-420.toml --staggered --origin-e 500100 --origin-n 7200050 --origin-z 420`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "project name (default: file name)")
	cmd.Flags().Float64Var(&opts.settings.Spacing, "spacing", opts.settings.Spacing, "hole spacing within a row (m)")
	cmd.Flags().Float64Var(&opts.settings.Burden, "burden", opts.settings.Burden, "distance between rows (m)")
	cmd.Flags().Float64Var(&opts.settings.Depth, "depth", opts.settings.Depth, "default hole depth (m)")
	cmd.Flags().Float64Var(&opts.settings.Diameter, "diameter", opts.settings.Diameter, "hole diameter (m)")
	cmd.Flags().Float64Var(&opts.settings.Stemming, "stemming", opts.settings.Stemming, "stemming length (m)")
	cmd.Flags().Float64Var(&opts.settings.SubDrill, "subdrill", opts.settings.SubDrill, "subdrill below grade (m)")
	cmd.Flags().IntVar(&opts.grid.Rows, "rows", opts.grid.Rows, "number of rows")
	cmd.Flags().IntVar(&opts.grid.Holes, "holes", opts.grid.Holes, "holes per row")
	cmd.Flags().BoolVar(&opts.grid.Staggered, "staggered", false, "offset every other row by half a spacing")
	cmd.Flags().Float64Var(&opts.grid.OriginX, "x", opts.grid.OriginX, "editor x of the first hole (m)")
	cmd.Flags().Float64Var(&opts.grid.OriginY, "y", opts.grid.OriginY, "editor y of the first hole (m)")
	cmd.Flags().Float64Var(&opts.origin.Easting, "origin-e", 0, "site easting of the editor origin")
	cmd.Flags().Float64Var(&opts.origin.Northing, "origin-n", 0, "site northing of the editor origin")
	cmd.Flags().Float64Var(&opts.origin.Elevation, "origin-z", 0, "collar elevation")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width (px)")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height (px)")
	cmd.Flags().BoolVar(&opts.fit, "fit", opts.fit, "fit the view to the pattern")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runNew(path string, opts newOpts) error {
	if _, err := os.Stat(path); err == nil && !opts.force {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}

	name := opts.name
	if name == "" {
		name = projectName(path)
	}
	p := pattern.NewProject(name)
	p.Settings = opts.settings
	p.Origin = opts.origin
	p.View = view.DefaultState(opts.width, opts.height)

	if opts.grid.Rows > 0 {
		pts, err := pattern.Generate(opts.settings, opts.grid)
		if err != nil {
			return err
		}
		p.Points = pts
	}
	if opts.fit && len(p.Points) > 0 {
		fitView(p)
	}

	if err := p.Save(path); err != nil {
		return err
	}

	stats := pattern.Summarize(p.Points, p.Settings)
	printSuccess("Created %s", StyleHighlight.Render(p.Name))
	printFile(path)
	if stats.Holes > 0 {
		printDetail("%d holes over %.1f × %.1f m, %.1f m drilled", stats.Holes, stats.Width(), stats.Height(), stats.DrillLength)
	}
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, path))
	return nil
}

// fitPadding is the margin in pixels kept around a fitted pattern.
const fitPadding = 40

// fitView centres the project view on its points.
func fitView(p *pattern.Project) {
	s := pattern.Summarize(p.Points, p.Settings)
	vt := view.New(p.View)
	vt.Fit(
		view.Point{X: s.Bound.Min.X(), Y: s.Bound.Min.Y()},
		view.Point{X: s.Bound.Max.X(), Y: s.Bound.Max.Y()},
		fitPadding,
	)
	p.View = vt.State()
}
