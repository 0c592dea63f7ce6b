// Package parser implements the low-level scanning primitives edit scripts
// are parsed with: reading an unsigned integer prefix, reading a fixed
// number of newline-terminated lines, and skipping a literal sequence.
package parser

import (
	"strconv"
	"strings"

	"github.com/Who23/ink/pkg/common/err"
)

const pkgName = "diff/parser"

// ReadUint64 consumes the leading run of ASCII digits from input and
// parses it as an unsigned integer, returning the unconsumed remainder.
func ReadUint64(input string) (remainder string, value uint64, parseErr error) {
	boundary := len(input)
	for i, c := range input {
		if c < '0' || c > '9' {
			boundary = i
			break
		}
	}

	if boundary == 0 {
		return "", 0, err.New(pkgName, err.CodeParse, "read_uint64", "expected a digit", nil)
	}

	n, convErr := strconv.ParseUint(input[:boundary], 10, 64)
	if convErr != nil {
		return "", 0, err.New(pkgName, err.CodeParse, "read_uint64", "malformed integer", convErr)
	}
	return input[boundary:], n, nil
}

// ReadLines consumes numLines lines from input, newline-separated, and
// returns them without their trailing newlines, plus the unconsumed
// remainder. The final line of the final block in a script carries no
// trailing newline; if end-of-input is reached exactly one line short,
// the remaining input is taken as that last line.
func ReadLines(input string, numLines uint64) (remainder string, lines []string, parseErr error) {
	if numLines == 0 {
		return input, nil, nil
	}

	lines = make([]string, 0, numLines)
	start := 0
	var counted uint64

	for i, c := range input {
		if c == '\n' {
			lines = append(lines, input[start:i])
			start = i + 1
			counted++
			if counted == numLines {
				return input[start:], lines, nil
			}
		}
	}

	if counted == numLines-1 {
		lines = append(lines, input[start:])
		return "", lines, nil
	}

	return "", nil, err.New(pkgName, err.CodeParse, "read_lines",
		"not enough lines in input", nil).WithContext("wanted", numLines).WithContext("got", counted)
}

// SkipSequence fails unless input starts with sequence, returning the
// remainder after it.
func SkipSequence(input, sequence string) (string, error) {
	rest, ok := strings.CutPrefix(input, sequence)
	if !ok {
		return "", err.New(pkgName, err.CodeParse, "skip_sequence",
			"sequence not found at beginning of input", nil).WithContext("sequence", sequence)
	}
	return rest, nil
}
