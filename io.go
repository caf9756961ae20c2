package main

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// shell wraps a readline instance, giving the REPL loop line history
// and ctrl-C/ctrl-D handling in place of the teacher's bare
// bufio.Reader.
type shell struct {
	rl *readline.Instance
}

func newShell() (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "db > ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
	})
	if err != nil {
		return nil, err
	}
	return &shell{rl: rl}, nil
}

func (s *shell) Close() error {
	return s.rl.Close()
}

// readLine blocks for one line of input, returning io.EOF on ctrl-D
// the way bufio.Reader.ReadString would.
func (s *shell) readLine() (string, error) {
	line, err := s.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
