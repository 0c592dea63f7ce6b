// Package diff is the top-level Myers line-diff engine: it produces an
// edit list between two line sequences (algo.From), serialises and parses
// that list to and from the edit-script text format, and applies or rolls
// back an edit script against a file on disk.
package diff

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/diff/algo"
	"github.com/Who23/ink/pkg/diff/edit"
)

const pkgName = "diff"

// From computes the Myers shortest edit script turning a into b.
func From(a, b []string) []edit.Edit {
	return algo.From(a, b)
}

// Serialize renders an edit list in the edit-script text format, edits
// joined by newlines. An empty list serialises to the empty string.
func Serialize(edits []edit.Edit) string {
	scripts := make([]string, len(edits))
	for i, e := range edits {
		scripts[i] = e.ToEditScript()
	}
	return strings.Join(scripts, "\n")
}

// Parse is the inverse of Serialize.
func Parse(script string) ([]edit.Edit, error) {
	if script == "" {
		return nil, nil
	}

	var edits []edit.Edit
	remaining := script
	for remaining != "" {
		rest, e, parseErr := edit.ParseEditScript(remaining)
		if parseErr != nil {
			return nil, err.Wrap(parseErr, pkgName, "parse")
		}
		edits = append(edits, e)
		// A Delete's script ends at "---\n", so the newline Serialize joins
		// edits with is still in front of the next header.
		remaining = strings.TrimPrefix(rest, "\n")
	}
	return edits, nil
}

// Apply streams path line by line into a temporary file, applying edits
// (which must be sorted ascending by Original.Line, as algo.From and Parse
// both produce) as it goes, then renames the temporary file over path.
func Apply(path string, edits []edit.Edit) error {
	return applyTo(path, edits)
}

// Rollback applies the inverse of edits to path: Insert and Delete swap,
// Replace keeps its op with Original and Modified swapped.
func Rollback(path string, edits []edit.Edit) error {
	inverted := make([]edit.Edit, len(edits))
	for i, e := range edits {
		inverted[i] = invert(e)
	}
	return applyTo(path, inverted)
}

func invert(e edit.Edit) edit.Edit {
	op := e.Op
	switch op {
	case edit.Insert:
		op = edit.Delete
	case edit.Delete:
		op = edit.Insert
	}
	return edit.Edit{Op: op, Original: e.Modified, Modified: e.Original}
}

func applyTo(path string, edits []edit.Edit) error {
	src, openErr := os.Open(path)
	if openErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "open source file", openErr).
			WithContext("path", path)
	}
	defer src.Close()

	dir := filepath.Dir(path)
	tmp, tmpErr := os.CreateTemp(dir, ".tmp-*")
	if tmpErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "create temp file", tmpErr)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	w := bufio.NewWriterSize(tmp, fileops.StreamChunkSize)

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, fileops.StreamChunkSize), 16*fileops.StreamChunkSize)

	var (
		editIndex        int
		skippedLinesLeft int
		lineNum          uint64
	)

	writeLine := func(s string) error {
		if _, e := w.WriteString(s); e != nil {
			return e
		}
		return w.WriteByte('\n')
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case skippedLinesLeft > 0:
			skippedLinesLeft--

		case editIndex < len(edits) && lineNum == edits[editIndex].Original.Line:
			e := edits[editIndex]
			switch e.Op {
			case edit.Insert:
				for _, m := range e.Modified.Content {
					if writeErr := writeLine(m); writeErr != nil {
						return err.New(pkgName, err.CodeIO, "apply", "write inserted line", writeErr)
					}
				}
				if writeErr := writeLine(line); writeErr != nil {
					return err.New(pkgName, err.CodeIO, "apply", "write line", writeErr)
				}
			case edit.Delete:
				skippedLinesLeft = len(e.Original.Content) - 1
			case edit.Replace:
				for _, m := range e.Modified.Content {
					if writeErr := writeLine(m); writeErr != nil {
						return err.New(pkgName, err.CodeIO, "apply", "write replacement line", writeErr)
					}
				}
				skippedLinesLeft = len(e.Original.Content) - 1
			}
			editIndex++

		default:
			if writeErr := writeLine(line); writeErr != nil {
				return err.New(pkgName, err.CodeIO, "apply", "write line", writeErr)
			}
		}

		lineNum++
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "read source file", scanErr)
	}

	leftover := edits[editIndex:]
	switch len(leftover) {
	case 0:
	case 1:
		if leftover[0].Op != edit.Insert {
			return err.New(pkgName, err.CodeParse, "apply", "wrong edit type left over", nil).
				WithContext("op", leftover[0].Op)
		}
		for _, m := range leftover[0].Modified.Content {
			if writeErr := writeLine(m); writeErr != nil {
				return err.New(pkgName, err.CodeIO, "apply", "write trailing inserted line", writeErr)
			}
		}
	default:
		return err.New(pkgName, err.CodeParse, "apply", "too many edits left over", nil).
			WithContext("remaining", len(leftover))
	}

	if flushErr := w.Flush(); flushErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "flush temp file", flushErr)
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "sync temp file", syncErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "close temp file", closeErr)
	}

	info, statErr := os.Stat(path)
	mode := os.FileMode(0644)
	if statErr == nil {
		mode = info.Mode()
	}
	if chmodErr := os.Chmod(tmpPath, mode); chmodErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "chmod temp file", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		return err.New(pkgName, err.CodeIO, "apply", "rename temp file over target", renameErr)
	}
	return nil
}
