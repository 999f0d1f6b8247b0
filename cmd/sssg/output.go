package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gorgonia/sssg/game"
	"github.com/muesli/termenv"
)

// printer writes coloured summaries. Colours are dropped when out is not a terminal.
type printer struct {
	out *termenv.Output
	r   *lipgloss.Renderer
}

func newPrinter(w io.Writer) printer {
	return printer{out: termenv.NewOutput(w), r: lipgloss.NewRenderer(w)}
}

func (p printer) value(tv game.TrueValue) string {
	s := p.out.String(tv.String())
	switch tv {
	case game.Win:
		s = s.Foreground(p.out.Color("2"))
	case game.Loss:
		s = s.Foreground(p.out.Color("1"))
	default:
		s = s.Foreground(p.out.Color("3"))
	}
	return s.String()
}

func (p printer) bold(format string, args ...interface{}) string {
	return p.out.String(fmt.Sprintf(format, args...)).Bold().String()
}

func (p printer) faint(format string, args ...interface{}) string {
	return p.out.String(fmt.Sprintf(format, args...)).Faint().String()
}

func (p printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// writeTable writes a bordered table with a bold header and right aligned cells.
func (p printer) writeTable(headers []string, rows [][]string) {
	cell := p.r.NewStyle().Padding(0, 1)
	header := cell.Bold(true)
	number := cell.Align(lipgloss.Right)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.r.NewStyle().Faint(true)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return number
		})
	fmt.Fprintln(p.out, t.Render())
}
