package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/pattern"
)

// holesCommand creates the holes command, which lists the drill points.
func (c *CLI) holesCommand() *cobra.Command {
	var (
		plain      bool
		customOnly bool
	)

	cmd := &cobra.Command{
		Use:   "holes [project]",
		Short: "Browse the drill points of a pattern",
		Long: `List the drill points with collar, depth, survey angles and charge length.

In a terminal the list is interactive; selecting a hole prints its details.
Use --plain (or pipe the output) for a static table.`,
		Example: `  blastgrid holes bench-420.toml
  blastgrid holes bench-420.toml --plain --custom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(args[0])
			if err != nil {
				return err
			}
			if plain || !isTerminal(os.Stdout) {
				return printHoles(p, customOnly)
			}
			return c.browseHoles(p, customOnly)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table")
	cmd.Flags().BoolVar(&customOnly, "custom", false, "only holes with a custom depth")

	return cmd
}

func printHoles(p *pattern.Project, customOnly bool) error {
	m := NewHoleListModel(p.Points, p.Settings)
	m.CustomOnly = customOnly
	holes := m.visible()
	if len(holes) == 0 {
		printInfo("No holes")
		return nil
	}
	fmt.Println(holeTable(holeRows(holes, p.Settings, -1)).Render())
	st := pattern.Summarize(p.Points, p.Settings)
	printStats(st.Holes, st.CustomDepth, 0, false)
	printDetail("drilled %.1f m · charge %.1f m", st.DrillLength, st.ChargeTotal)
	return nil
}

func (c *CLI) browseHoles(p *pattern.Project, customOnly bool) error {
	m := NewHoleListModel(p.Points, p.Settings)
	m.CustomOnly = customOnly
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("hole browser: %w", err)
	}
	if sel := final.(HoleListModel).Selected; sel != nil {
		printPoint(*sel, p.Settings)
	}
	return nil
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
