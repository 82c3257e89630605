// Package render draws boards for terminals.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"svw.info/salvo/internal/domain"
)

// ramp runs from cold to hot in the xterm 256-colour palette.
var ramp = []lipgloss.Color{"17", "18", "19", "25", "31", "37", "71", "107", "143", "179", "215", "209", "203", "196"}

var (
	hitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	targetStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Options controls Heatmap output.
type Options struct {
	Color  bool
	Target *domain.Coord
}

// Heatmap writes b over g: hits as X, misses as O, unknown cells as their score
// relative to the board maximum (0-99). The target, if any, is highlighted, or
// bracketed in plain mode.
func Heatmap(w io.Writer, g domain.Grid, b domain.Board, opt Options) error {
	if b.Size != g.Size() {
		return fmt.Errorf("heatmap: %w", domain.ErrDimensionMismatch)
	}
	top := 0.0
	for _, c := range g.Cells(domain.Unknown) {
		top = math.Max(top, b.At(c))
	}

	var sb strings.Builder
	header := "   "
	for c := 0; c < g.Size(); c++ {
		header += fmt.Sprintf("%4d", c)
	}
	sb.WriteString(style(opt.Color, headerStyle, header))
	sb.WriteByte('\n')

	for r := 0; r < g.Size(); r++ {
		sb.WriteString(style(opt.Color, headerStyle, fmt.Sprintf("%3d", r)))
		for c := 0; c < g.Size(); c++ {
			at := domain.Coord{Row: r, Col: c}
			sb.WriteString(cell(g, b, at, top, opt))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func cell(g domain.Grid, b domain.Board, at domain.Coord, top float64, opt Options) string {
	isTarget := opt.Target != nil && *opt.Target == at
	switch g.At(at) {
	case domain.Hit:
		return style(opt.Color, hitStyle, "   X")
	case domain.Miss:
		return style(opt.Color, missStyle, "   O")
	}

	score := 0
	if top > 0 {
		score = int(math.Round(99 * math.Max(b.At(at), 0) / top))
	}
	if !opt.Color {
		if isTarget {
			return fmt.Sprintf("[%2d]", score)
		}
		return fmt.Sprintf("  %2d", score)
	}
	text := fmt.Sprintf("  %2d", score)
	s := lipgloss.NewStyle().Foreground(ramp[min(score*len(ramp)/100, len(ramp)-1)])
	if isTarget {
		s = targetStyle
	}
	return s.Render(text)
}

func style(on bool, s lipgloss.Style, text string) string {
	if !on {
		return text
	}
	return s.Render(text)
}
