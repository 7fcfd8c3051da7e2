package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/linegraph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listPickedStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// vertexHeaders are the columns of vertex tables.
var vertexHeaders = []string{"#", "X", "Y", "Z", "Degree"}

func vertexRow(g *graph.Graph, v int) []string {
	p := g.Point(v)
	return []string{
		strconv.Itoa(v),
		formatCoord(p.X),
		formatCoord(p.Y),
		formatCoord(p.Z),
		strconv.Itoa(g.Degree(v)),
	}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// VertexPickerModel is the bubbletea model behind "path --pick". It lists the
// vertices of a graph and returns after Want of them were chosen.
type VertexPickerModel struct {
	Graph  *graph.Graph
	Want   int
	Cursor int
	Height int
	Offset int

	// Picked holds the chosen vertices in pick order.
	Picked []int
}

// NewVertexPickerModel creates a picker that finishes after want picks.
func NewVertexPickerModel(g *graph.Graph, want int) VertexPickerModel {
	return VertexPickerModel{Graph: g, Want: want, Height: 15}
}

func (m VertexPickerModel) Init() tea.Cmd { return nil }

func (m VertexPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m = m.moveTo(m.Cursor)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "pgup":
			m = m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m = m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m = m.moveTo(0)
		case "end", "G":
			m = m.moveTo(m.Graph.VertexCount() - 1)
		case "backspace":
			if n := len(m.Picked); n > 0 {
				m.Picked = m.Picked[:n-1]
			}
		case "enter":
			if m.Graph.VertexCount() == 0 {
				break
			}
			m.Picked = append(slices.Clone(m.Picked), m.Cursor)
			if len(m.Picked) >= m.Want {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// moveTo places the cursor on v, clamped to the vertex range, and scrolls
// the window so the cursor stays visible.
func (m VertexPickerModel) moveTo(v int) VertexPickerModel {
	m.Cursor = max(min(v, m.Graph.VertexCount()-1), 0)
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m VertexPickerModel) prompt() string {
	switch {
	case m.Want != 2:
		return fmt.Sprintf("Select vertex %d of %d", len(m.Picked)+1, m.Want)
	case len(m.Picked) == 0:
		return "Select start vertex"
	default:
		return "Select end vertex"
	}
}

func (m VertexPickerModel) rowStyle(v, col int) lipgloss.Style {
	switch {
	case v == m.Cursor:
		return listSelectedStyle
	case slices.Contains(m.Picked, v):
		return listPickedStyle
	case col == len(vertexHeaders):
		return listDimStyle
	}
	return lipgloss.NewStyle()
}

func (m VertexPickerModel) View() string {
	n := m.Graph.VertexCount()
	var rows [][]string
	for v := m.Offset; v < min(m.Offset+m.Height, n); v++ {
		marker := "  "
		if v == m.Cursor {
			marker = "▸ "
		}
		rows = append(rows, append([]string{marker}, vertexRow(m.Graph, v)...))
	}

	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, vertexHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return header
			}
			return m.rowStyle(m.Offset+row, col)
		})

	status := fmt.Sprintf("  [%d/%d]", m.Cursor+1, n)
	if len(m.Picked) > 0 {
		picked := make([]string, len(m.Picked))
		for i, v := range m.Picked {
			picked[i] = strconv.Itoa(v)
		}
		status += "  " + listPickedStyle.Render("picked "+strings.Join(picked, " "+iconArrow+" "))
	}

	return strings.Join([]string{
		StyleTitle.Render(m.prompt()),
		listDimStyle.Render("↑/↓ navigate  g/G first/last  ⏎ select  ⌫ undo  q quit"),
		"",
		t.Render(),
		"",
		listDimStyle.Render(status),
	}, "\n")
}
