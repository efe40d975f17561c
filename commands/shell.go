package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/cshell/core/config"
	"github.com/josephlewis42/cshell/core/history"
	"github.com/josephlewis42/cshell/core/procexec"
	"github.com/josephlewis42/cshell/core/vars"
	"golang.org/x/term"
)

// Executor runs external programs for the shell.
type Executor interface {
	Run(ctx context.Context, argv []string) (*procexec.Result, error)
}

var _ Executor = (*procexec.Executor)(nil)

// Shell holds the interpreter state shared by every dispatched line.
type Shell struct {
	// Stdout receives all user visible output.
	Stdout io.Writer
	// Vars holds user assigned variables.
	Vars *vars.Store
	// Log records every executed line.
	Log *history.Log
	// Executor runs anything that isn't a builtin.
	Executor Executor
	// PropagateExitStatus logs the exit status of external programs instead
	// of ExternalResultCode.
	PropagateExitStatus bool

	// Prompt is shown before each interactive line.
	Prompt string
	// ColorPrompt colors the prompt when stdin is a terminal.
	ColorPrompt bool

	// Set to true to quit the shell
	quit bool
}

// NewShell creates a shell configured by cfg writing to stdout. Callers must
// Close the shell to release the history recorders.
func NewShell(cfg *config.Configuration, stdout io.Writer) (*Shell, error) {
	var logOpts []history.LogOption

	historyFd, err := cfg.OpenHistoryLog()
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	if historyFd != nil {
		logOpts = append(logOpts, history.WithRecorder(history.NewJSONLinesRecorder(historyFd)))
	}

	if cfg.History.SQLiteFile != "" {
		recorder, err := history.OpenSQLiteRecorder(cfg.History.SQLiteFile)
		if err != nil {
			if historyFd != nil {
				historyFd.Close()
			}
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		logOpts = append(logOpts, history.WithRecorder(recorder))
	}

	return &Shell{
		Stdout: stdout,
		Vars:   vars.NewStore(),
		Log:    history.NewLog(cfg.History.InitialCapacity, logOpts...),
		Executor: &procexec.Executor{
			ChunkSize:  cfg.ChunkSize,
			SearchPath: cfg.SearchPath,
		},
		PropagateExitStatus: cfg.PropagateExitStatus,
		Prompt:              cfg.Prompt,
		ColorPrompt:         cfg.ColorPrompt,
	}, nil
}

// Close releases everything the shell owns.
func (s *Shell) Close() error {
	return s.Log.Close()
}

func (s *Shell) prompt() string {
	if s.ColorPrompt && term.IsTerminal(int(os.Stdin.Fd())) {
		return ColorBoldGreen.Sprint(s.Prompt)
	}
	return s.Prompt
}

func (s *Shell) logf(format string, a ...interface{}) {
	log.Printf("cshell: "+format, a...)
}

var (
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
)
