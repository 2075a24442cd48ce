package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kinrow/game"
)

// LineReader reads one line of input after showing prompt. It returns io.EOF
// or ErrAborted once no more input will come.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

var errNotTwoNumbers = errors.New("expected two numbers")

type Human struct {
	profile Profile
	in      LineReader
	out     io.Writer
}

func NewHuman(name string, mark game.Mark, in LineReader, out io.Writer) *Human {
	return &Human{
		profile: Profile{Name: name, Mark: mark, Kind: HumanKind},
		in:      in,
		out:     out,
	}
}

func (h *Human) Profile() Profile {
	return h.profile
}

// Move prompts until the input names an empty cell of g.
func (h *Human) Move(ctx context.Context, g *game.Grid) (game.Move, error) {
	prompt := fmt.Sprintf("%s (%s), input row and col (0-%d): ", h.profile.Name, h.profile.Mark, g.Size()-1)
	for {
		if err := ctx.Err(); err != nil {
			return game.NoMove, err
		}

		line, err := h.in.ReadLine(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, ErrAborted) {
			return game.NoMove, ErrAborted
		} else if err != nil {
			return game.NoMove, fmt.Errorf("failed to read move: %w", err)
		}

		move, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(h.out, "Error: Please input two numbers!")
			continue
		}
		if !g.IsEmptyCell(move.Row, move.Col) {
			fmt.Fprintln(h.out, "Cell isn't empty or out of bounds! Try again.")
			continue
		}
		return move, nil
	}
}

// parseMove reads "row col", also accepting a comma between the two.
func parseMove(line string) (game.Move, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return game.NoMove, errNotTwoNumbers
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return game.NoMove, errNotTwoNumbers
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return game.NoMove, errNotTwoNumbers
	}
	return game.Move{Row: row, Col: col}, nil
}
