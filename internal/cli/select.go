package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/points"
	"github.com/openpit/blastgrid/pkg/view"
)

// selectCommand creates the select command, which shows one drill point.
func (c *CLI) selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select [project] [id]",
		Short: "Show the details of a drill point",
		Long: `Select a drill point by id and print its collar, depth, charge and survey
angles. An unknown id selects nothing and is not an error.`,
		Example: `  blastgrid select bench-420.toml A1`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSelect(args[0], args[1])
		},
	}
}

func (c *CLI) runSelect(path, id string) error {
	p, err := c.loadProject(path)
	if err != nil {
		return err
	}

	layer := points.NewLayer(view.New(p.View), p.Settings, points.WithLogger(c.Logger))
	layer.SetPoints(p.Points)

	pt := layer.Select(id)
	if pt == nil {
		printInfo("No point %s", StyleHighlight.Render(id))
		return nil
	}
	printPoint(*pt, p.Settings)
	return nil
}

// printPoint prints the details of one point.
func printPoint(pt pattern.DrillPoint, s pattern.Settings) {
	fmt.Println(StyleTitle.Render(pt.ID))
	printKeyValue("collar", formatPosition(pt.Position()))
	depth := fmt.Sprintf("%.2f m", pt.Depth)
	if pt.HasCustomDepth(s) {
		depth += " " + styleCustom.Render(iconCustom+" custom")
	}
	printKeyValue("depth", depth)
	printKeyValue("spacing", fmt.Sprintf("%.2f m", pt.Spacing))
	printKeyValue("burden", fmt.Sprintf("%.2f m", pt.Burden))
	printKeyValue("stemming", fmt.Sprintf("%.2f m", pt.StemmingOr(s.Stemming)))
	printKeyValue("charge", fmt.Sprintf("%.2f m", pt.ChargeLength(s)))
	if pt.HasOrientation() {
		printKeyValue("azimuth", fmt.Sprintf("%.1f°", *pt.Azimuth))
		printKeyValue("dip", fmt.Sprintf("%.1f°", *pt.Dip))
	} else {
		printKeyValue("survey", StyleDim.Render("vertical (no angles)"))
	}
}
