package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"kinrow/game"

	"github.com/muesli/termenv"
)

const (
	firstColor  = "10" // Bright green
	secondColor = "9"  // Bright red
)

type Option func(r *Renderer)

// WithColor turns mark colors and highlighting off when false.
func WithColor(color bool) Option {
	return func(r *Renderer) {
		r.color = color
	}
}

// WithProfile overrides the color profile detected from the output.
func WithProfile(profile termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = &profile
	}
}

// WithClearScreen clears the terminal before every board.
func WithClearScreen(clear bool) Option {
	return func(r *Renderer) {
		r.clear = clear
	}
}

type Renderer struct {
	out     *termenv.Output
	first   game.Mark
	second  game.Mark
	color   bool
	clear   bool
	profile *termenv.Profile
}

func NewRenderer(w io.Writer, first, second game.Mark, options ...Option) *Renderer {
	r := &Renderer{ // Default values
		first:  first,
		second: second,
		color:  true,
	}
	for _, option := range options {
		option(r)
	}

	var outputOptions []termenv.OutputOption
	if !r.color {
		outputOptions = append(outputOptions, termenv.WithProfile(termenv.Ascii))
	} else if r.profile != nil {
		outputOptions = append(outputOptions, termenv.WithProfile(*r.profile))
	}
	r.out = termenv.NewOutput(w, outputOptions...)
	return r
}

// Render prints g with column and row indices. Cells in highlight, such as a
// winning line, are shown in bold.
func (r *Renderer) Render(g *game.Grid, highlight []game.Move) {
	if r.clear {
		r.out.ClearScreen()
	}
	fmt.Fprint(r.out, r.Board(g, highlight))
}

func (r *Renderer) Board(g *game.Grid, highlight []game.Move) string {
	n := g.Size()
	width := len(strconv.Itoa(n - 1))
	marked := make(map[game.Move]bool, len(highlight))
	for _, move := range highlight {
		marked[move] = true
	}

	var sb strings.Builder
	margin := strings.Repeat(" ", width+2)
	sb.WriteString(margin)
	for col := 0; col < n; col++ {
		if col > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%*d", width, col)
	}
	sb.WriteByte('\n')
	sb.WriteString(margin)
	sb.WriteString(strings.Repeat("-", n*(width+1)-1))
	sb.WriteByte('\n')

	for row := 0; row < n; row++ {
		fmt.Fprintf(&sb, "%*d| ", width, row)
		for col := 0; col < n; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.Repeat(" ", width-1))
			sb.WriteString(r.cell(g.At(row, col), marked[game.Move{Row: row, Col: col}]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Renderer) cell(mark game.Mark, highlighted bool) string {
	style := r.out.String(mark.String())
	switch mark {
	case r.first:
		style = style.Foreground(r.out.Color(firstColor))
	case r.second:
		style = style.Foreground(r.out.Color(secondColor))
	}
	if highlighted {
		style = style.Bold()
	}
	return style.String()
}
