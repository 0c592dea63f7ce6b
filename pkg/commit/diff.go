package commit

import "github.com/Who23/ink/pkg/entry"

// EditKind tags a structural edit between two commits.
type EditKind int

const (
	// Insert: the path exists in the modified commit but not the original.
	Insert EditKind = iota
	// Delete: the path exists in the original commit but not the modified.
	Delete
	// Modify: the path exists in both but its EntryDigest differs.
	Modify
)

// CommitEdit is a single structural difference between two commits at one
// path. For Insert and Delete only one of Original/Modified is populated;
// for Modify both are.
type CommitEdit struct {
	Kind     EditKind
	Path     string
	Original entry.Entry
	Modified entry.Entry
}

// CommitDiff is the unordered set of structural edits between two commits,
// keyed by path. Consumers must tolerate any ordering of Edits.
type CommitDiff struct {
	Edits []CommitEdit
}

// IsEmpty reports whether the diff carries no edits.
func (d CommitDiff) IsEmpty() bool {
	return len(d.Edits) == 0
}

// Diff computes the structural diff from c to other: a path present in
// other but not c is an Insert, a path present in both with differing
// EntryDigest is a Modify, and a path present in c but not other is a
// Delete. This is a set-difference over file entries keyed by path, never
// the textual differ.
func (c Commit) Diff(other Commit) CommitDiff {
	selfByPath := make(map[string]entry.Entry, len(c.Entries))
	for _, e := range c.Entries {
		selfByPath[e.Path] = e
	}
	otherByPath := make(map[string]entry.Entry, len(other.Entries))
	for _, e := range other.Entries {
		otherByPath[e.Path] = e
	}

	var edits []CommitEdit
	for path, oe := range otherByPath {
		se, present := selfByPath[path]
		if !present {
			edits = append(edits, CommitEdit{Kind: Insert, Path: path, Modified: oe})
			continue
		}
		if se.EntryDigest != oe.EntryDigest {
			edits = append(edits, CommitEdit{Kind: Modify, Path: path, Original: se, Modified: oe})
		}
	}
	for path, se := range selfByPath {
		if _, present := otherByPath[path]; !present {
			edits = append(edits, CommitEdit{Kind: Delete, Path: path, Original: se})
		}
	}

	return CommitDiff{Edits: edits}
}
