// Package procexec runs external programs and captures their combined
// output.
package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// DefaultChunkSize is the number of bytes read from the capture pipe at once.
const DefaultChunkSize = 100

// LaunchFailureMessage is shown when a command can't be started.
const LaunchFailureMessage = "Missing keyword or command, or permission problem"

// ErrLaunch is returned when the capture pipe or the child process can't be
// created.
var ErrLaunch = errors.New("missing keyword or command, or permission problem")

// Result holds the outcome of a finished program.
type Result struct {
	// Output holds everything the program wrote to stdout and stderr,
	// interleaved in the order it was written.
	Output []byte
	// ExitCode is the program's exit status.
	ExitCode int
}

// Executor runs external programs one at a time.
type Executor struct {
	// ChunkSize is the read size used to drain the capture pipe. Values < 1
	// use DefaultChunkSize.
	ChunkSize int
	// SearchPath overrides $PATH for resolving program names.
	SearchPath string
}

func (e *Executor) chunkSize() int {
	if e.ChunkSize < 1 {
		return DefaultChunkSize
	}
	return e.ChunkSize
}

func (e *Executor) searchPath() string {
	if e.SearchPath != "" {
		return e.SearchPath
	}
	return os.Getenv("PATH")
}

// Run starts argv[0] with argv as its argument vector and blocks until it
// exits. Programs that can't be found or aren't executable don't produce an
// error, their result carries LaunchFailureMessage as output and exit code 1.
func (e *Executor) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrLaunch)
	}

	path, err := LookPath(e.searchPath(), argv[0])
	if err != nil {
		return &Result{
			Output:   []byte(LaunchFailureMessage + "\n"),
			ExitCode: 1,
		}, nil
	}

	if !strings.Contains(path, "/") {
		// Keep os/exec from repeating the search against $PATH.
		path = "./" + path
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	defer r.Close()

	cmd := exec.CommandContext(ctx, path)
	cmd.Args = argv
	cmd.Stdout = w
	cmd.Stderr = w

	startErr := cmd.Start()
	// The child holds its own copy of the write end; closing ours lets the
	// read end see EOF once the child exits.
	w.Close()
	if startErr != nil {
		if isLoadFailure(startErr) {
			return &Result{
				Output:   []byte(LaunchFailureMessage + "\n"),
				ExitCode: 1,
			}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLaunch, startErr)
	}

	output, readErr := drain(r, e.chunkSize())
	waitErr := cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.As(waitErr, &exitErr):
	default:
		return nil, fmt.Errorf("waiting for %s: %w", argv[0], waitErr)
	}

	if readErr != nil {
		return nil, fmt.Errorf("reading output of %s: %w", argv[0], readErr)
	}

	return &Result{
		Output:   output,
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// isLoadFailure reports whether a Start error means the program image itself
// couldn't be loaded, as opposed to the interpreter running out of resources.
func isLoadFailure(err error) bool {
	if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ENOMEM) {
		return false
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) ||
		errors.Is(err, syscall.ENOEXEC) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, exec.ErrNotFound)
}

// drain reads r in fixed size chunks until EOF and concatenates them.
func drain(r io.Reader, chunkSize int) ([]byte, error) {
	out := &bytes.Buffer{}
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		out.Write(chunk[:n])
		switch {
		case err == io.EOF:
			return out.Bytes(), nil
		case err != nil:
			return out.Bytes(), err
		}
	}
}
