package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/cshell/core/history"
	"github.com/pborman/getopt/v2"
)

const (
	// AssignmentPrefix starts a $NAME=VALUE variable assignment.
	AssignmentPrefix = "$"

	assignmentError = "Error: No name and/or value found for setting up Environment Variables."
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = map[string]ShellBuiltin{
	"print": ShellBuiltinFunc(Print),
	"theme": ShellBuiltinFunc(Theme),
	"exit":  ShellBuiltinFunc(Exit),
	"log":   ShellBuiltinFunc(Log),
}

// Builtins returns the sorted names of the builtins.
func Builtins() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Print writes its arguments separated by single spaces.
func Print(s *Shell, args []string) int {
	fmt.Fprintln(s.Stdout, strings.Join(args[1:], " "))
	return 0
}

func themeColor(value color.Attribute) *color.Color {
	c := color.New(color.Reset, value)
	// Themes are requested explicitly so they ignore terminal detection.
	c.EnableColor()
	return c
}

// Themes maps theme names to the color they switch the terminal to.
var Themes = map[string]*color.Color{
	"red":   themeColor(color.FgRed),
	"green": themeColor(color.FgGreen),
	"blue":  themeColor(color.FgBlue),
}

// Theme switches the terminal foreground color.
func Theme(s *Shell, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(s.Stdout, "unsupported theme")
		return ErrorResultCode
	}

	theme, ok := Themes[args[1]]
	if !ok {
		fmt.Fprintln(s.Stdout, "unsupported theme")
		return ErrorResultCode
	}

	theme.SetWriter(s.Stdout)
	return 0
}

// Exit quits the shell
func Exit(s *Shell, args []string) int {
	fmt.Fprintln(s.Stdout, "Bye!")
	s.quit = true
	return 0
}

// Log prints the execution log.
func Log(s *Shell, args []string) int {
	opts := getopt.New()
	count := opts.Int('n', -1, "show only the last COUNT entries", "COUNT")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Stdout
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: log [-n COUNT]")
		fmt.Fprintln(w, "Display the commands run in this session.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		opts.PrintOptions(w)

		if err != nil {
			return ErrorResultCode
		}
		return 0
	}

	entries := s.Log.Entries()
	if *count >= 0 {
		entries = s.Log.Tail(*count)
	}

	if err := history.RenderEntries(s.Stdout, entries); err != nil {
		s.logf("couldn't render log: %v", err)
		return ErrorResultCode
	}
	return 0
}

// Assign sets a variable from a single $NAME=VALUE token. The stored name
// keeps its $ so later lines substitute the token $NAME.
func Assign(s *Shell, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(s.Stdout, assignmentError)
		return ErrorResultCode
	}

	name, value, ok := strings.Cut(args[0], "=")
	if !ok || name == AssignmentPrefix || value == "" || strings.Contains(value, "=") {
		fmt.Fprintln(s.Stdout, assignmentError)
		return ErrorResultCode
	}

	s.Vars.Upsert(name, value)
	return 0
}
