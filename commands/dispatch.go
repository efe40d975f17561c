package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephlewis42/cshell/core/history"
	"github.com/josephlewis42/cshell/core/procexec"
	"github.com/josephlewis42/cshell/core/shell"
)

const (
	// ExternalResultCode is logged for every external program unless the
	// shell propagates exit statuses.
	ExternalResultCode = 1

	// ErrorResultCode is logged for input and launch errors.
	ErrorResultCode = -1
)

// Outcome is the result of dispatching a single line.
type Outcome struct {
	// Code is the result code recorded in the execution log.
	Code int
	// Exit is set when the line asked the interpreter to stop.
	Exit bool
}

// Dispatch substitutes variables in tokens then runs the builtin or external
// program they name. Tokens may be modified in place.
func (s *Shell) Dispatch(ctx context.Context, tokens []string) Outcome {
	// Only one substitution per line, assignments included.
	if len(tokens) > 1 {
		s.Vars.SubstituteFirstMatch(tokens)
	}

	if len(tokens) == 0 {
		fmt.Fprintln(s.Stdout, procexec.LaunchFailureMessage)
		return Outcome{Code: ErrorResultCode}
	}

	name := tokens[0]
	if builtin, ok := AllBuiltins[name]; ok {
		code := builtin.Main(s, tokens)
		return Outcome{Code: code, Exit: s.quit}
	}

	if strings.HasPrefix(name, AssignmentPrefix) {
		return Outcome{Code: Assign(s, tokens)}
	}

	return Outcome{Code: s.executeProgram(ctx, tokens)}
}

// RunLine tokenizes and dispatches line then records it in the log.
func (s *Shell) RunLine(ctx context.Context, line string) Outcome {
	tokens := shell.Tokenize(line)
	outcome := s.Dispatch(ctx, tokens)

	name := history.EmptyCommandName
	if len(tokens) > 0 {
		name = tokens[0]
	}
	s.Log.Append(name, outcome.Code)

	return outcome
}

func (s *Shell) executeProgram(ctx context.Context, argv []string) int {
	res, err := s.Executor.Run(ctx, argv)
	if err != nil {
		s.logf("couldn't run %q: %v", argv[0], err)
		fmt.Fprintln(s.Stdout, procexec.LaunchFailureMessage)
		return ErrorResultCode
	}

	if _, err := s.Stdout.Write(res.Output); err != nil {
		s.logf("couldn't write output of %q: %v", argv[0], err)
	}

	if s.PropagateExitStatus {
		return res.ExitCode
	}
	return ExternalResultCode
}
