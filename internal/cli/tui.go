package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropkit/pkg/editor"
	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
)

// View styles
var (
	mapImageStyle  = lipgloss.NewStyle().Foreground(colorGray)
	mapBorderStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	mapHandleStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	mapMaskStyle   = lipgloss.NewStyle().Foreground(colorDim)
	helpStyle      = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	defaultNudge = 10.0 // canvas pixels per arrow key
	mapColumns   = 48
)

// editHandles is the tab order of draggable targets.
var editHandles = append([]geom.Handle{geom.HandleMove}, geom.Handles[:]...)

// =============================================================================
// EditModel - interactive terminal editor
// =============================================================================

// removalDoneMsg carries the outcome of an asynchronous background removal.
type removalDoneMsg struct{ err error }

// EditModel is the bubbletea model driving an editor with synthetic pointer
// events: every arrow key is a press on the selected handle, a move and a
// release.
type EditModel struct {
	ctx      context.Context
	editor   *editor.Editor
	output   string
	selected int
	nudge    float64

	status    string
	err       error
	confirmed bool
	quitting  bool
}

// NewEditModel creates an edit model for a loaded editor. Confirmed output is
// written to output.
func NewEditModel(ctx context.Context, e *editor.Editor, output string) EditModel {
	return EditModel{ctx: ctx, editor: e, output: output, nudge: defaultNudge}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case removalDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "background removed"
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m EditModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		m.editor.Cancel()
		m.quitting = true
		return m, tea.Quit
	case "c":
		on, err := m.editor.ToggleCrop()
		switch {
		case err != nil:
			m.err = err
		case on:
			m.status = "crop mode on"
		default:
			m.status = "crop mode off"
		}
	case "tab":
		m.selected = (m.selected + 1) % len(editHandles)
	case "shift+tab":
		m.selected = (m.selected + len(editHandles) - 1) % len(editHandles)
	case "up", "down", "left", "right", "shift+up", "shift+down", "shift+left", "shift+right":
		m.drag(key)
	case "enter":
		if _, err := m.editor.ApplyCrop(m.ctx); err != nil {
			m.err = err
		} else {
			m.status = "crop applied"
		}
	case "r":
		m.err = m.editor.ResetToOriginal(m.ctx)
		if m.err == nil {
			m.status = "reset to original"
		}
	case "b":
		if m.editor.State().Processing() {
			return m, nil
		}
		m.status = "removing background..."
		e, ctx := m.editor, m.ctx
		return m, func() tea.Msg { return removalDoneMsg{err: e.RemoveBackground(ctx)} }
	case "s":
		data, err := m.editor.Confirm(m.ctx)
		if err == nil {
			err = writeOutput(m.output, data)
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// drag moves the selected handle by one nudge in the direction of key.
func (m *EditModel) drag(key string) {
	s := m.editor.State()
	if !s.CropMode || s.Processing() {
		return
	}
	step := m.nudge
	if strings.HasPrefix(key, "shift+") {
		step *= 5
		key = strings.TrimPrefix(key, "shift+")
	}
	var dx, dy float64
	switch key {
	case "up":
		dy = -step
	case "down":
		dy = step
	case "left":
		dx = -step
	case "right":
		dx = step
	}

	_, m.err = m.editor.Nudge(editHandles[m.selected], dx, dy)
}

func (m EditModel) View() string {
	if m.quitting {
		return ""
	}
	s := m.editor.State()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("cropkit edit"))
	b.WriteString("\n\n")
	b.WriteString(minimap(s, editHandles[m.selected], mapColumns))
	b.WriteString("\n")

	rows := [][]string{
		{"image", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"canvas", fmt.Sprintf("%dx%d", s.CanvasWidth, s.CanvasHeight)},
		{"padding", fmt.Sprintf("%d", s.Padding)},
		{"crop", cropLabel(s)},
		{"handle", string(editHandles[m.selected])},
		{"background", s.Removal.String()},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(iconError + " " + errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(StyleDim.Render(iconInfo + " " + m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("c crop  tab handle  ←↑↓→ drag (shift ×5)  ⏎ apply  r reset  b remove bg  s save  q quit"))
	return b.String()
}

func cropLabel(s editor.Snapshot) string {
	if !s.CropMode {
		return "off"
	}
	return s.Rect.String()
}

// minimap draws the canvas as a character grid: image pixels, the masked
// area outside the crop rectangle, its border and its handles.
func minimap(s editor.Snapshot, selected geom.Handle, cols int) string {
	if !s.Loaded || s.CanvasWidth <= 0 || s.CanvasHeight <= 0 {
		return StyleDim.Render("(no image)") + "\n"
	}
	rows := max(1, int(float64(cols)*float64(s.CanvasHeight)/float64(s.CanvasWidth)/2+0.5))
	sx := float64(s.CanvasWidth) / float64(cols)
	sy := float64(s.CanvasHeight) / float64(rows)

	offset := 0.0
	if s.CropMode {
		offset = float64(s.Padding)
	}
	img := geom.Rect{X: offset, Y: offset, Width: float64(s.Width), Height: float64(s.Height)}

	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c := range cells[r] {
			p := geom.Point{X: (float64(c) + 0.5) * sx, Y: (float64(r) + 0.5) * sy}
			cells[r][c] = mapCell(s, img, p, sx, sy)
		}
	}
	if s.CropMode {
		for _, a := range geom.Anchors(s.Rect) {
			c := min(cols-1, max(0, int(a.Point.X/sx)))
			r := min(rows-1, max(0, int(a.Point.Y/sy)))
			mark := "o"
			if a.Handle == selected {
				mark = "@"
			}
			cells[r][c] = mapHandleStyle.Render(mark)
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	return b.String()
}

func mapCell(s editor.Snapshot, img geom.Rect, p geom.Point, sx, sy float64) string {
	inImage := img.Contains(p)
	if !s.CropMode {
		if inImage {
			return mapImageStyle.Render("░")
		}
		return " "
	}

	r := s.Rect
	if r.Contains(p) {
		if p.X-r.X < sx || r.Right()-p.X < sx || p.Y-r.Y < sy || r.Bottom()-p.Y < sy {
			return mapBorderStyle.Render("#")
		}
		if inImage {
			return mapImageStyle.Render("░")
		}
		return " "
	}
	if inImage {
		return mapMaskStyle.Render("·")
	}
	return " "
}

// =============================================================================
// edit command
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "edit <image>",
		Short: "Edit an image interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for the confirmed image (default <image>_edit.png)")
	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, input, output string) error {
	ctx := cmd.Context()
	e, err := c.loadEditor(ctx, input)
	if err != nil {
		return err
	}
	defer e.Close()

	path := outputPath(output, input, "_edit", formatPNG)
	final, err := tea.NewProgram(NewEditModel(ctx, e, path), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(EditModel); ok && fm.confirmed {
		printSuccess(c.out, "Saved")
		printFile(c.out, path)
		return nil
	}
	printInfo(c.out, "Cancelled")
	return nil
}
