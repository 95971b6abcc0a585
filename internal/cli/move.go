package cli

import (
	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/points"
	"github.com/openpit/blastgrid/pkg/view"
)

// moveCommand creates the move command, which relocates one drill point.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		anywhere bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "move [project] [id] [x] [y]",
		Short: "Move a drill point",
		Long: `Move a drill point to new world coordinates (meters).

The point is checked against every other point with the same rules as a
placement. A refused move leaves the project unchanged.`,
		Example: `  blastgrid move bench-420.toml B3 16 9.5`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parsePosition(args[2], args[3])
			if err != nil {
				return err
			}
			return c.runMove(args[0], args[1], to, anywhere, dryRun)
		},
	}

	cmd.Flags().BoolVar(&anywhere, "anywhere", false, "allow positions outside the saved view")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without saving")

	return cmd
}

func (c *CLI) runMove(path, id string, to view.Point, anywhere, dryRun bool) error {
	p, err := c.loadProject(path)
	if err != nil {
		return err
	}

	vt := view.New(p.View)
	if anywhere {
		vt = nil
	}
	var moved *points.Event
	layer := points.NewLayer(vt, p.Settings,
		points.WithLogger(c.Logger),
		points.WithHandler(func(e points.Event) {
			if e.Type == points.PointMoved {
				moved = &e
			}
		}),
	)
	layer.SetPoints(p.Points)

	v, err := layer.Move(id, to)
	if err != nil {
		return err
	}
	if !v.Valid {
		return rejection(v)
	}
	if moved == nil {
		printInfo("%s is already at %s", id, formatPosition(to))
		return nil
	}

	from := moved.Point.Position()
	if err := p.MovePoint(id, moved.To); err != nil {
		return err
	}
	if dryRun {
		printInfo("Dry run: move of %s not saved", id)
		return nil
	}
	if err := p.Save(path); err != nil {
		return err
	}
	printSuccess("Moved %s %s %s %s", StyleHighlight.Render(id), formatPosition(from), iconArrow, formatPosition(moved.To))
	return nil
}
