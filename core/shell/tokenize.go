// Package shell splits raw input lines into the words the interpreter
// dispatches on.
package shell

import "strings"

// Delimiters holds every byte that separates two tokens.
const Delimiters = " \t\r\n\v\f\a"

// IsDelimiter reports whether r separates tokens.
func IsDelimiter(r rune) bool {
	return strings.ContainsRune(Delimiters, r)
}

// Tokenize splits line into non-empty words. Runs of delimiters collapse into
// a single split point, so blank lines produce an empty (non-nil) slice.
//
// The result can be passed directly as an argv: the first element is the
// program name and the slice length marks the end of the arguments.
func Tokenize(line string) []string {
	tokens := strings.FieldsFunc(line, IsDelimiter)
	if tokens == nil {
		return []string{}
	}
	return tokens
}
