package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/openpit/blastgrid/pkg/pattern"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// holeHeaders are the columns of the hole table.
var holeHeaders = []string{"", "ID", "X", "Y", "Depth", "Az", "Dip", "Charge"}

// =============================================================================
// HoleListModel - Interactive hole browser
// =============================================================================

// HoleListModel is the bubbletea model for browsing the holes of a pattern.
// Enter selects the hole under the cursor and quits; c toggles the
// custom-depth filter.
type HoleListModel struct {
	Points     []pattern.DrillPoint
	Settings   pattern.Settings
	Cursor     int
	Offset     int
	Height     int
	CustomOnly bool
	Selected   *pattern.DrillPoint
}

// NewHoleListModel creates a new hole list model.
func NewHoleListModel(points []pattern.DrillPoint, s pattern.Settings) HoleListModel {
	return HoleListModel{Points: points, Settings: s, Height: 15}
}

// visible returns the holes shown under the current filter.
func (m HoleListModel) visible() []pattern.DrillPoint {
	if !m.CustomOnly {
		return m.Points
	}
	var out []pattern.DrillPoint
	for _, p := range m.Points {
		if p.HasCustomDepth(m.Settings) {
			out = append(out, p)
		}
	}
	return out
}

func (m HoleListModel) Init() tea.Cmd {
	return nil
}

func (m HoleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.visible())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "c":
			m.CustomOnly = !m.CustomOnly
			m.Cursor, m.Offset = 0, 0
		case "enter":
			holes := m.visible()
			if len(holes) == 0 {
				return m, nil
			}
			p := holes[m.Cursor].Clone()
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m HoleListModel) View() string {
	var b strings.Builder

	title := "Holes"
	if m.CustomOnly {
		title += " " + styleCustom.Render(iconCustom+" custom depth")
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  c custom only  q quit"))
	b.WriteString("\n\n")

	holes := m.visible()
	end := min(m.Offset+m.Height, len(holes))
	rows := holeRows(holes[m.Offset:end], m.Settings, m.Cursor-m.Offset)

	t := holeTable(rows).StyleFunc(func(row, col int) lipgloss.Style {
		if row == -1 {
			return listHeaderStyle
		}
		idx := m.Offset + row
		if idx >= len(holes) {
			return lipgloss.NewStyle()
		}
		base := lipgloss.NewStyle()
		if holes[idx].HasCustomDepth(m.Settings) && col == 4 {
			base = base.Foreground(colorOrange)
		}
		if idx == m.Cursor {
			return base.Foreground(colorCyan).Bold(true)
		}
		return base
	})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(holes) == 0 {
		b.WriteString(listDimStyle.Render("  no holes"))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(holes))))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// holeTable builds the bordered table used by both the browser and --plain.
func holeTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(holeHeaders...).
		Rows(rows...)
}

// holeRows formats points as table rows. The row at cursor gets the cursor
// marker; pass -1 for none.
func holeRows(points []pattern.DrillPoint, s pattern.Settings, cursor int) [][]string {
	rows := make([][]string, 0, len(points))
	for i, p := range points {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		depth := fmt.Sprintf("%.2f", p.Depth)
		if p.HasCustomDepth(s) {
			depth += " " + iconCustom
		}
		az, dip := "—", "—"
		if p.HasOrientation() {
			az = fmt.Sprintf("%.1f", *p.Azimuth)
			dip = fmt.Sprintf("%.1f", *p.Dip)
		}
		rows = append(rows, []string{
			mark,
			p.ID,
			fmt.Sprintf("%.2f", p.X),
			fmt.Sprintf("%.2f", p.Y),
			depth,
			az,
			dip,
			fmt.Sprintf("%.2f", p.ChargeLength(s)),
		})
	}
	return rows
}
