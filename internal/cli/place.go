package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/points"
	"github.com/openpit/blastgrid/pkg/view"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	surface  bool // X and Y are surface pixels in the saved view
	anywhere bool // skip the viewport bounds check
	depth    float64
	azimuth  float64
	dip      float64
	stemming float64
	dryRun   bool
}

// placeCommand creates the place command, which adds one drill point.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place [project] [x] [y]",
		Short: "Place a drill point",
		Long: `Place a drill point at world coordinates (meters), or at surface pixels of
the project's saved view with --surface.

A placement is refused when it duplicates an existing point, sits closer
than the minimum hole distance, or falls outside the drawable viewport.
Use -- before negative coordinates.`,
		Example: `  blastgrid place bench-420.toml 14.5 8
  blastgrid place bench-420.toml 320 240 --surface
  blastgrid place bench-420.toml --depth 12 --azimuth 90 --dip 75 -- -2 4`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parsePosition(args[1], args[2])
			if err != nil {
				return err
			}
			return c.runPlace(args[0], at, opts, cmd.Flags().Changed)
		},
	}

	cmd.Flags().BoolVar(&opts.surface, "surface", false, "interpret x and y as surface pixels")
	cmd.Flags().BoolVar(&opts.anywhere, "anywhere", false, "allow world positions outside the saved view")
	cmd.Flags().Float64Var(&opts.depth, "depth", 0, "hole depth in meters (default: pattern depth)")
	cmd.Flags().Float64Var(&opts.azimuth, "azimuth", 0, "survey azimuth in degrees (requires --dip)")
	cmd.Flags().Float64Var(&opts.dip, "dip", 0, "survey dip in degrees (requires --azimuth)")
	cmd.Flags().Float64Var(&opts.stemming, "stemming", 0, "stemming override in meters")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate without saving")
	cmd.MarkFlagsRequiredTogether("azimuth", "dip")
	cmd.MarkFlagsMutuallyExclusive("surface", "anywhere")

	return cmd
}

func (c *CLI) runPlace(path string, at view.Point, opts placeOpts, changed func(string) bool) error {
	p, err := c.loadProject(path)
	if err != nil {
		return err
	}

	vt := view.New(p.View)
	if opts.anywhere {
		vt = nil
	}
	layer := points.NewLayer(vt, p.Settings,
		points.WithLogger(c.Logger),
		points.WithHandler(c.printEvent),
	)
	layer.SetPoints(p.Points)

	var (
		pt pattern.DrillPoint
		v  points.Validation
	)
	if opts.surface {
		pt, v = layer.PlaceAt(at)
	} else {
		pt, v = layer.PlaceWorld(at)
	}
	if !v.Valid {
		return rejection(v)
	}

	if changed("depth") {
		pt.Depth = opts.depth
	}
	if changed("azimuth") {
		pt.Azimuth = pattern.Float(opts.azimuth)
		pt.Dip = pattern.Float(opts.dip)
	}
	if changed("stemming") {
		pt.Stemming = pattern.Float(opts.stemming)
	}
	if err := p.AddPoint(pt); err != nil {
		return err
	}

	if opts.dryRun {
		printInfo("Dry run: %s not saved", pt.ID)
		return nil
	}
	if err := p.Save(path); err != nil {
		return err
	}
	printSuccess("Placed %s at %s", StyleHighlight.Render(pt.ID), formatPosition(pt.Position()))
	printStats(len(p.Points), pattern.Summarize(p.Points, p.Settings).CustomDepth, 0, false)
	return nil
}

// printEvent reports point layer events as they happen.
func (c *CLI) printEvent(e points.Event) {
	c.Logger.Debug("point event", "type", e.Type, "message", e.Message)
	if e.Type == points.DuplicateDetected && e.Point != nil {
		printWarning("%s (existing point %s at %s)", e.Message, e.Point.ID, formatPosition(e.Point.Position()))
	}
}

// rejection converts a failed validation into the error returned to the shell.
func rejection(v points.Validation) error {
	err := &errors.RejectedError{Reason: v.Reason, Duplicate: v.IsDuplicate}
	if v.Existing != nil {
		err.ExistingID = v.Existing.ID
	}
	return err
}

// parsePosition parses two coordinate arguments.
func parsePosition(xs, ys string) (view.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return view.Point{}, errors.New(errors.ErrCodeInvalidInput, "x: %q is not a number", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return view.Point{}, errors.New(errors.ErrCodeInvalidInput, "y: %q is not a number", ys)
	}
	return view.Point{X: x, Y: y}, nil
}

func formatPosition(p view.Point) string {
	return "(" + strconv.FormatFloat(p.X, 'f', 2, 64) + ", " + strconv.FormatFloat(p.Y, 'f', 2, 64) + ")"
}
