package player

import (
	"errors"

	"github.com/chzyer/readline"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Terminal reads moves from the console with line editing and history.
type Terminal struct {
	l *readline.Instance
}

func NewTerminal() (*Terminal, error) {
	l, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	return &Terminal{l: l}, nil
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.l.SetPrompt(prompt)
	line, err := t.l.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrAborted
	}
	return line, err
}

func (t *Terminal) Close() error {
	return t.l.Close()
}
