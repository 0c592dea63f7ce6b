package algo_test

import (
	"testing"

	"github.com/Who23/ink/pkg/diff/algo"
	"github.com/Who23/ink/pkg/diff/edit"
	"github.com/stretchr/testify/assert"
)

func TestFromReplacesLines(t *testing.T) {
	a := []string{
		"The small cactus sat in a",
		"pot full of sand and dirt",
		"",
		"Next to it was a small basil",
		"plant in a similar pot",
		"",
		"Everyday, the plants got plenty",
		"of sunshine and water",
	}
	b := []string{
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

	edits := algo.From(a, b)

	assert.Equal(t, []edit.Edit{
		{
			Op:       edit.Replace,
			Original: edit.HalfEdit{Line: 0, Content: []string{"The small cactus sat in a"}},
			Modified: edit.HalfEdit{Line: 0, Content: []string{"The small green cactus sat in a"}},
		},
		{
			Op: edit.Replace,
			Original: edit.HalfEdit{Line: 3, Content: []string{
				"Next to it was a small basil",
				"plant in a similar pot",
			}},
			Modified: edit.HalfEdit{Line: 3, Content: []string{
				"In another part of the house,",
				"another house plant grew in a",
				"much bigger pot",
			}},
		},
		{
			Op:       edit.Replace,
			Original: edit.HalfEdit{Line: 7, Content: []string{"of sunshine and water"}},
			Modified: edit.HalfEdit{Line: 8, Content: []string{"of water and sunshine"}},
		},
	}, edits)
}

func TestFromAddsLine(t *testing.T) {
	a := []string{"this is a line", "another line"}
	b := []string{"this is a line", "new line!", "another line"}

	edits := algo.From(a, b)

	assert.Equal(t, []edit.Edit{
		{
			Op:       edit.Insert,
			Original: edit.HalfEdit{Line: 1},
			Modified: edit.HalfEdit{Line: 1, Content: []string{"new line!"}},
		},
	}, edits)
}

func TestFromAddsMultipleLines(t *testing.T) {
	a := []string{"this is a line", "another line"}
	b := []string{"this is a line", "new line!", "woah another", "another line", "one after"}

	edits := algo.From(a, b)

	assert.Equal(t, []edit.Edit{
		{
			Op:       edit.Insert,
			Original: edit.HalfEdit{Line: 1},
			Modified: edit.HalfEdit{Line: 1, Content: []string{"new line!", "woah another"}},
		},
		{
			Op:       edit.Insert,
			Original: edit.HalfEdit{Line: 2},
			Modified: edit.HalfEdit{Line: 4, Content: []string{"one after"}},
		},
	}, edits)
}

func TestFromDeletesLine(t *testing.T) {
	a := []string{"this is a line", "new line!", "another line"}
	b := []string{"this is a line", "another line"}

	edits := algo.From(a, b)

	assert.Equal(t, []edit.Edit{
		{
			Op:       edit.Delete,
			Original: edit.HalfEdit{Line: 1, Content: []string{"new line!"}},
			Modified: edit.HalfEdit{Line: 1},
		},
	}, edits)
}

func TestFromDeletesMultipleLines(t *testing.T) {
	a := []string{
		"this is a line",
		"new line!",
		"woah another",
		"another line",
		"one after",
		"and another!!",
	}
	b := []string{"this is a line", "another line"}

	edits := algo.From(a, b)

	assert.Equal(t, []edit.Edit{
		{
			Op:       edit.Delete,
			Original: edit.HalfEdit{Line: 1, Content: []string{"new line!", "woah another"}},
			Modified: edit.HalfEdit{Line: 1},
		},
		{
			Op:       edit.Delete,
			Original: edit.HalfEdit{Line: 4, Content: []string{"one after", "and another!!"}},
			Modified: edit.HalfEdit{Line: 2},
		},
	}, edits)
}

func TestFromIdenticalSequencesYieldsNoEdits(t *testing.T) {
	a := []string{"one", "two", "three"}
	b := []string{"one", "two", "three"}

	assert.Empty(t, algo.From(a, b))
}

func TestFromBothEmptyYieldsNoEdits(t *testing.T) {
	assert.Empty(t, algo.From(nil, nil))
}
