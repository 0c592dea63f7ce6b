package diff_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Who23/ink/pkg/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, path string, lines []string) {
	t.Helper()
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

var cactusA = []string{
	"The small cactus sat in a",
	"pot full of sand and dirt",
	"",
	"Next to it was a small basil",
	"plant in a similar pot",
	"",
	"Everyday, the plants got plenty",
	"of sunshine and water",
}

var cactusB = []string{
	"The small green cactus sat in a",
	"pot full of sand and dirt",
	"",
	"In another part of the house,",
	"another house plant grew in a",
	"much bigger pot",
	"",
	"Everyday, the plants got plenty",
	"of water and sunshine",
}

func TestSerializeParseRoundTrip(t *testing.T) {
	edits := diff.From(cactusA, cactusB)

	script := diff.Serialize(edits)
	parsed, err := diff.Parse(script)
	require.NoError(t, err)
	assert.Equal(t, edits, parsed)
}

func TestSerializeEmptyDiffIsEmptyString(t *testing.T) {
	assert.Equal(t, "", diff.Serialize(nil))
}

func TestParseEmptyStringIsEmptyDiff(t *testing.T) {
	edits, err := diff.Parse("")
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestApplyThenRollbackCactus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	writeLines(t, path, cactusA)

	edits := diff.From(cactusA, cactusB)

	require.NoError(t, diff.Apply(path, edits))
	assert.Equal(t, cactusB, readLines(t, path))

	require.NoError(t, diff.Rollback(path, edits))
	assert.Equal(t, cactusA, readLines(t, path))
}

func TestApplyInsertAtEndOfFile(t *testing.T) {
	a := []string{"this is a line", "another line"}
	b := []string{"this is a line", "another line", "trailing line"}

	path := filepath.Join(t.TempDir(), "file.txt")
	writeLines(t, path, a)

	edits := diff.From(a, b)
	require.NoError(t, diff.Apply(path, edits))
	assert.Equal(t, b, readLines(t, path))

	require.NoError(t, diff.Rollback(path, edits))
	assert.Equal(t, a, readLines(t, path))
}

func TestApplyDeleteMultipleLines(t *testing.T) {
	a := []string{
		"this is a line",
		"new line!",
		"woah another",
		"another line",
		"one after",
		"and another!!",
	}
	b := []string{"this is a line", "another line"}

	path := filepath.Join(t.TempDir(), "file.txt")
	writeLines(t, path, a)

	edits := diff.From(a, b)
	require.NoError(t, diff.Apply(path, edits))
	assert.Equal(t, b, readLines(t, path))

	require.NoError(t, diff.Rollback(path, edits))
	assert.Equal(t, a, readLines(t, path))
}

func TestApplyIdenticalSequenceIsNoOp(t *testing.T) {
	a := []string{"one", "two", "three"}

	path := filepath.Join(t.TempDir(), "file.txt")
	writeLines(t, path, a)

	edits := diff.From(a, a)
	require.NoError(t, diff.Apply(path, edits))
	assert.Equal(t, a, readLines(t, path))
}
