package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/readline"
	"golang.org/x/term"
)

// LineReader supplies interactive input lines.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

var _ LineReader = (*readline.Instance)(nil)

// NewReadline creates a line editor reading from stdin.
func NewReadline(stdin io.ReadCloser, stdout, stderr io.Writer) (*readline.Instance, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
		FuncIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}

// RunScript runs every line of r until it's exhausted or a line exits the
// shell. Lines may be of any length.
func (s *Shell) RunScript(ctx context.Context, r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if s.RunLine(ctx, line).Exit {
				return nil
			}
		}

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Stdout, "Bye!")
			return nil
		case err != nil:
			return err
		}
	}
}

// RunInteractive prompts for and runs lines until input closes or a line
// exits the shell.
func (s *Shell) RunInteractive(ctx context.Context, rl LineReader) error {
	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Stdout, "Bye!")
			return nil // Input closed, quit.
		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue
		case err != nil:
			return err
		}

		if s.RunLine(ctx, line).Exit {
			return nil
		}
	}
}
