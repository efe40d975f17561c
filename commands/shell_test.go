package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/cshell/core/config"
	"github.com/josephlewis42/cshell/core/history"
	"github.com/josephlewis42/cshell/core/procexec"
	"github.com/josephlewis42/cshell/core/vars"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(out io.Writer) *Shell {
	clock := func() time.Time {
		// Go's reference timestmap with a different value in each position.
		return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	}

	return &Shell{
		Stdout:   out,
		Vars:     vars.NewStore(),
		Log:      history.NewLog(history.DefaultInitialCapacity, history.WithClock(clock)),
		Executor: &procexec.Executor{},
		Prompt:   "cshell$ ",
	}
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Lines []string
}

func (gts goldenTestSuite) Run(t *testing.T) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden", "scripts")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			out := &bytes.Buffer{}
			s := newTestShell(out)
			script := strings.Join(tc.Lines, "\n") + "\n"

			if err := s.RunScript(context.Background(), strings.NewReader(script)); err != nil {
				t.Fatal(err)
			}

			g.Assert(t, tn, out.Bytes())
		})
	}
}

func TestRunScript(t *testing.T) {
	cases := goldenTestSuite{
		"print":             {[]string{"print a b c"}},
		"print-empty":       {[]string{"print"}},
		"theme-red":         {[]string{"theme red"}},
		"theme-green-blue":  {[]string{"theme green", "theme blue"}},
		"theme-unsupported": {[]string{"theme purple", "theme", "theme red green"}},
		"empty-lines":       {[]string{"", "  \t "}},
		"exit":              {[]string{"print before", "exit", "print after"}},
		"log":               {[]string{"print hi", "theme purple", "", "log"}},
		"log-tail":          {[]string{"print a", "print b", "log -n 1"}},
		"external":          {[]string{"echo hello   world", "cshell-not-a-command arg"}},

		// Variables
		"assign-substitute":  {[]string{"$name=world", "print hello $name", "$name=again", "print $name $name"}},
		"assign-errors":      {[]string{"$name", "$name=", "$=value", "$a=b=c", "$a=b extra", "print $name"}},
		"substitute-command": {[]string{"$p=print", "$p substituted"}},
		"single-token":       {[]string{"$x=print", "$x"}},
	}

	cases.Run(t)
}

func TestDispatch_resultCodes(t *testing.T) {
	cases := map[string]struct {
		line string
		code int
		exit bool
	}{
		"empty":              {"", ErrorResultCode, false},
		"print":              {"print a b c", 0, false},
		"theme":              {"theme red", 0, false},
		"theme-unsupported":  {"theme purple", ErrorResultCode, false},
		"theme-extra-args":   {"theme red blue", ErrorResultCode, false},
		"exit":               {"exit", 0, true},
		"exit-with-args":     {"exit now", 0, true},
		"log":                {"log", 0, false},
		"log-bad-flag":       {"log -z", ErrorResultCode, false},
		"log-help":           {"log --help", 0, false},
		"assign":             {"$a=b", 0, false},
		"assign-no-equals":   {"$a", ErrorResultCode, false},
		"assign-extra-words": {"$a=b c", ErrorResultCode, false},
		"external":           {"sh -c exit", ExternalResultCode, false},
		"external-failing":   {"false", ExternalResultCode, false},
		"external-missing":   {"cshell-not-a-command", ExternalResultCode, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s := newTestShell(io.Discard)

			outcome := s.RunLine(context.Background(), tc.line)

			assert.Equal(t, Outcome{Code: tc.code, Exit: tc.exit}, outcome)
			assert.Equal(t, 1, s.Log.Len())
		})
	}
}

func TestDispatch_propagateExitStatus(t *testing.T) {
	s := newTestShell(io.Discard)
	s.PropagateExitStatus = true

	assert.Equal(t, 0, s.RunLine(context.Background(), "true").Code)
	assert.Equal(t, 1, s.RunLine(context.Background(), "false").Code)
	assert.Equal(t, 1, s.RunLine(context.Background(), "cshell-not-a-command").Code)
}

func TestAssign_doesNotMutateOnError(t *testing.T) {
	s := newTestShell(io.Discard)

	for _, line := range []string{"$name", "$name=", "$=x", "$a=b=c", "$a=b c"} {
		assert.Equal(t, ErrorResultCode, s.RunLine(context.Background(), line).Code, line)
	}

	assert.Equal(t, 0, s.Vars.Len())
}

func TestAssign_upserts(t *testing.T) {
	s := newTestShell(io.Discard)

	s.RunLine(context.Background(), "$X=1")
	s.RunLine(context.Background(), "$X=2")

	assert.Equal(t, []vars.Binding{{Name: "$X", Value: "2"}}, s.Vars.Bindings())
}

func TestDispatch_printOutput(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)

	outcome := s.Dispatch(context.Background(), []string{"print", "a", "b", "c"})

	assert.Equal(t, 0, outcome.Code)
	assert.Equal(t, "a b c\n", out.String())
}

func TestDispatch_themeEscapes(t *testing.T) {
	for theme, escape := range map[string]string{
		"red":   "\x1b[0;31m",
		"green": "\x1b[0;32m",
		"blue":  "\x1b[0;34m",
	} {
		out := &bytes.Buffer{}
		s := newTestShell(out)

		outcome := s.Dispatch(context.Background(), []string{"theme", theme})

		assert.Equal(t, 0, outcome.Code)
		assert.Equal(t, escape, out.String())
	}
}

func TestDispatch_logLineCount(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)
	lines := []string{"print a", "", "theme nope", "$v=1", "$v", "print $v", "cshell-not-a-command"}

	for _, line := range lines {
		s.RunLine(context.Background(), line)
	}
	out.Reset()

	require.Equal(t, 0, s.Dispatch(context.Background(), []string{"log"}).Code)
	rendered := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")

	assert.Len(t, rendered, len(lines))
	assert.Equal(t, "Mon Jan  2 03:04:05 2006 <empty> -1", rendered[1])
	assert.Equal(t, "Mon Jan  2 03:04:05 2006 print 0", rendered[5])
	assert.Equal(t, "Mon Jan  2 03:04:05 2006 cshell-not-a-command 1", rendered[6])
}

func TestDispatch_logHelp(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)

	s.Dispatch(context.Background(), []string{"log", "-h"})

	assert.Contains(t, out.String(), "usage: log [-n COUNT]")
	assert.Equal(t, 0, s.Log.Len())
}

func TestDispatch_largeExternalOutput(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)
	s.Executor = &procexec.Executor{ChunkSize: 3}

	s.RunLine(context.Background(), "seq 1 5000")

	var expected strings.Builder
	for i := 1; i <= 5000; i++ {
		expected.WriteString(strconv.Itoa(i))
		expected.WriteString("\n")
	}
	assert.Equal(t, expected.String(), out.String())
}

type failingExecutor struct{}

func (failingExecutor) Run(context.Context, []string) (*procexec.Result, error) {
	return nil, errors.New("fork: resource temporarily unavailable")
}

func TestDispatch_launchFailure(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)
	s.Executor = failingExecutor{}

	outcome := s.RunLine(context.Background(), "ls -la")

	assert.Equal(t, Outcome{Code: ErrorResultCode}, outcome)
	assert.Equal(t, procexec.LaunchFailureMessage+"\n", out.String())
	assert.Equal(t, "ls", s.Log.Entries()[0].Name)
}

func TestRunLine_logsSubstitutedName(t *testing.T) {
	s := newTestShell(io.Discard)

	s.RunLine(context.Background(), "$p=print")
	s.RunLine(context.Background(), "$p hello")

	entries := s.Log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "$p=print", entries[0].Name)
	assert.Equal(t, "print", entries[1].Name)
}

func TestRunLine_badProgramImage(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "notanelf"), []byte{0x00, 0x01, 0x02, 0x03}, 0755))
	out := &bytes.Buffer{}
	s := newTestShell(out)
	s.Executor = &procexec.Executor{SearchPath: dir}

	s.RunLine(context.Background(), "notanelf")

	assert.Equal(t, procexec.LaunchFailureMessage+"\n", out.String())
	entries := s.Log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, ExternalResultCode, entries[0].ResultCode)
}

func TestRunScript_unboundedLines(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)
	word := strings.Repeat("x", 200000)

	err := s.RunScript(context.Background(), strings.NewReader("print "+word+" "+word))

	assert.Nil(t, err)
	assert.Equal(t, word+" "+word+"\nBye!\n", out.String())
	assert.Equal(t, 1, s.Log.Len())
}

func TestRunScript_exitStopsReading(t *testing.T) {
	s := newTestShell(io.Discard)

	err := s.RunScript(context.Background(), strings.NewReader("print a\nexit\nprint b\n"))

	assert.Nil(t, err)
	assert.Equal(t, 2, s.Log.Len())
	assert.Equal(t, "exit", s.Log.Entries()[1].Name)
}

type fakeReadline struct {
	lines   []string
	prompts []string
}

func (f *fakeReadline) SetPrompt(prompt string) {
	f.prompts = append(f.prompts, prompt)
}

func (f *fakeReadline) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func TestRunInteractive(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)
	rl := &fakeReadline{lines: []string{"print one", "^C", "", "print two", "exit", "print three"}}

	err := s.RunInteractive(context.Background(), rl)

	assert.Nil(t, err)
	assert.Equal(t, "one\n"+procexec.LaunchFailureMessage+"\ntwo\nBye!\n", out.String())
	assert.Equal(t, 4, s.Log.Len())
	assert.Equal(t, []string{"print three"}, rl.lines)
	assert.Equal(t, "cshell$ ", rl.prompts[0])
}

func TestRunInteractive_eof(t *testing.T) {
	out := &bytes.Buffer{}
	s := newTestShell(out)

	assert.Nil(t, s.RunInteractive(context.Background(), &fakeReadline{}))
	assert.Equal(t, "Bye!\n", out.String())
}

func TestNewShell(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	configPath := filepath.Join(dir, "config.yaml")
	configData := "history:\n" +
		"  jsonl_file: " + filepath.Join(dir, "history.jsonl") + "\n" +
		"  sqlite_file: " + filepath.Join(dir, "history.db") + "\n"
	require.Nil(t, afero.WriteFile(fs, configPath, []byte(configData), 0600))

	cfg, err := config.Load(fs, configPath)
	require.Nil(t, err)

	s, err := NewShell(cfg, io.Discard)
	require.Nil(t, err)
	s.RunLine(context.Background(), "print hi")
	s.RunLine(context.Background(), "theme nope")
	require.Nil(t, s.Close())

	fd, err := fs.Open(filepath.Join(dir, "history.jsonl"))
	require.Nil(t, err)
	defer fd.Close()

	var names []string
	assert.Nil(t, history.ReadJSONLines(fd, func(r *history.Record) {
		assert.Equal(t, s.Log.SessionID(), r.SessionID)
		names = append(names, r.Name)
	}))
	assert.Equal(t, []string{"print", "theme"}, names)

	db, err := history.OpenSQLiteRecorder(filepath.Join(dir, "history.db"))
	require.Nil(t, err)
	defer db.Close()
	records, err := db.Records(s.Log.SessionID())
	require.Nil(t, err)
	assert.Len(t, records, 2)
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"exit", "log", "print", "theme"}, Builtins())

	for _, name := range Builtins() {
		assert.NotNil(t, AllBuiltins[name], name)
	}
}
