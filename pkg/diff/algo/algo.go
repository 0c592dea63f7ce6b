// Package algo implements Myers' shortest-edit-script algorithm: given two
// sequences of lines, it finds the minimal set of insertions, deletions,
// and replacements that turns one into the other.
package algo

import "github.com/Who23/ink/pkg/diff/edit"

// From computes the shortest edit script turning a into b, as a sequence
// of joined Edits in original-file order.
func From(a, b []string) []edit.Edit {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	trace := explorePaths(a, b)
	path := findPath(trace, len(a), len(b))
	return createEdits(path, a, b)
}

// explorePaths runs the forward pass of Myers' algorithm: for each edit
// distance d, it extends every reachable diagonal as far as it will go and
// records the furthest x reached for each k-diagonal, snapshotting the
// whole v array at each depth. The names (d, k, v, x, y) follow the
// original paper.
func explorePaths(a, b []string) [][]int {
	n, m := len(a), len(b)
	max := n + m
	v := make([]int, 2*max+1)
	var t [][]int

	// for d = 0, the starting point is k = 1, (x, y) = (0, -1)
	v[max+1] = 0

	for d := 0; d <= max; d++ {
		for k := 0; k <= 2*d; k += 2 {
			indexK := (max - d) + k

			var x int
			if k == 0 || (k != 2*d && v[indexK-1] < v[indexK+1]) {
				x = v[indexK+1]
			} else {
				x = v[indexK-1] + 1
			}

			// this is x - (k - d) rewritten to avoid a negative intermediate
			y := x + d - k

			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}

			v[indexK] = x

			if x >= n && y >= m {
				snapshot := make([]int, len(v))
				copy(snapshot, v)
				t = append(t, snapshot)
				return t
			}
		}

		snapshot := make([]int, len(v))
		copy(snapshot, v)
		t = append(t, snapshot)
	}

	return t
}

// findPath walks the trace backwards from the end point to the origin,
// recovering the sequence of points the shortest edit script passes
// through, in forward order.
func findPath(trace [][]int, aLen, bLen int) [][2]int {
	max := aLen + bLen

	x, y := aLen, bLen
	var path [][2]int

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		indexK := max + k

		var prevK int
		if k == -d || (k != d && v[indexK-1] < v[indexK+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}

		prevIndexK := max + prevK
		prevX := v[prevIndexK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			path = append(path, [2]int{x, y})
			x--
			y--
		}

		if d > 0 {
			path = append(path, [2]int{x, y})
		}

		x, y = prevX, prevY
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// createEdits walks the points of an edit-graph path and fuses the
// vertical (insert) and horizontal (delete) moves along it into runs of
// Edits; a diagonal move (no change) closes out whatever run is open.
func createEdits(path [][2]int, a, b []string) []edit.Edit {
	var diff []edit.Edit
	var chunk *edit.Edit
	x, y := 0, 0

	for _, point := range path {
		prevX, prevY := point[0], point[1]

		var op edit.Operation
		var isEdit bool
		switch {
		case x == prevX:
			op, isEdit = edit.Insert, true
		case y == prevY:
			op, isEdit = edit.Delete, true
		}

		if isEdit {
			var originalContent, modifiedContent []string
			if x != len(a) {
				originalContent = []string{a[x]}
			}
			if y != len(b) {
				modifiedContent = []string{b[y]}
			}

			e := edit.New(op, uint64(x), uint64(y), originalContent, modifiedContent)
			if chunk != nil {
				// the path only ever yields contiguous, joinable moves
				_ = chunk.Join(e)
			} else {
				chunk = &e
			}
		} else if chunk != nil {
			diff = append(diff, *chunk)
			chunk = nil
		}

		x, y = prevX, prevY
	}

	if chunk != nil {
		diff = append(diff, *chunk)
	}

	return diff
}
