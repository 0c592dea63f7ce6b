// Package graph implements the commit graph: an in-memory, digest-keyed
// directed graph with parent/child adjacency lists per node, and its
// whole-structure binary serialization.
package graph

import (
	"bytes"
	"os"
	"sort"

	"github.com/Who23/ink/pkg/codec"
	"github.com/Who23/ink/pkg/common/err"
	"github.com/Who23/ink/pkg/common/fileops"
	"github.com/Who23/ink/pkg/digest"
)

const pkgName = "graph"

const fileMode = 0644

type neighbors struct {
	parents  []digest.Digest
	children []digest.Digest
}

// Graph is a directed graph whose nodes are content digests. Cycles are
// permitted by the structural API (the commit workflow never introduces
// one: every commit adds exactly one edge from an existing node to a
// freshly added node).
type Graph struct {
	nodes map[digest.Digest]*neighbors
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[digest.Digest]*neighbors)}
}

// AddNode adds id to the graph with no edges. Fails if id is already
// present.
func (g *Graph) AddNode(id digest.Digest) error {
	if _, exists := g.nodes[id]; exists {
		return err.New(pkgName, err.CodeGraphInvariant, "add_node", "ID is already in the graph", nil)
	}
	g.nodes[id] = &neighbors{}
	return nil
}

// RemoveNode removes id and every edge incident on it, on both sides.
// Fails if id is absent.
func (g *Graph) RemoveNode(id digest.Digest) error {
	n, ok := g.nodes[id]
	if !ok {
		return err.New(pkgName, err.CodeGraphInvariant, "remove_node", "Invalid Node ID", nil)
	}

	for _, child := range n.children {
		if cn, present := g.nodes[child]; present {
			cn.parents = removeDigest(cn.parents, id)
		}
	}
	for _, parent := range n.parents {
		if pn, present := g.nodes[parent]; present {
			pn.children = removeDigest(pn.children, id)
		}
	}

	delete(g.nodes, id)
	return nil
}

// AddEdge adds a directed edge from → to. Fails if either endpoint is
// absent, or the edge already exists from either side's perspective.
func (g *Graph) AddEdge(from, to digest.Digest) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return err.New(pkgName, err.CodeGraphInvariant, "add_edge", "Invalid Node ID for 'from' node", nil)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return err.New(pkgName, err.CodeGraphInvariant, "add_edge", "Invalid Node ID for 'to' node", nil)
	}

	if containsDigest(fromNode.children, to) {
		return err.New(pkgName, err.CodeGraphInvariant, "add_edge",
			"'from' node already contains an edge to 'to' node", nil)
	}
	fromNode.children = append(fromNode.children, to)

	if containsDigest(toNode.parents, from) {
		return err.New(pkgName, err.CodeGraphInvariant, "add_edge",
			"'to' node already contains an edge from 'from' node", nil)
	}
	toNode.parents = append(toNode.parents, from)

	return nil
}

// RemoveEdge removes the directed edge from → to. Fails if either
// endpoint is absent, or the edge is missing on either side's adjacency
// list.
func (g *Graph) RemoveEdge(from, to digest.Digest) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return err.New(pkgName, err.CodeGraphInvariant, "remove_edge", "Invalid ID for 'from' node", nil)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return err.New(pkgName, err.CodeGraphInvariant, "remove_edge", "Invalid ID for 'to' node", nil)
	}

	if !containsDigest(fromNode.children, to) {
		return err.New(pkgName, err.CodeGraphInvariant, "remove_edge",
			"No edge exists between the 'from' node and the 'to' node", nil)
	}
	fromNode.children = removeDigest(fromNode.children, to)

	if !containsDigest(toNode.parents, from) {
		return err.New(pkgName, err.CodeGraphInvariant, "remove_edge",
			"No edge exists between the 'to' node and the 'from' node", nil)
	}
	toNode.parents = removeDigest(toNode.parents, from)

	return nil
}

// Has reports whether id is a node in the graph.
func (g *Graph) Has(id digest.Digest) bool {
	_, ok := g.nodes[id]
	return ok
}

// Parents returns id's parent digests. Returns nil if id is absent.
func (g *Graph) Parents(id digest.Digest) []digest.Digest {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]digest.Digest(nil), n.parents...)
}

// Children returns id's child digests. Returns nil if id is absent.
func (g *Graph) Children(id digest.Digest) []digest.Digest {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]digest.Digest(nil), n.children...)
}

// CommitHashes returns every node's digest, sorted for deterministic
// iteration.
func (g *Graph) CommitHashes() []digest.Digest {
	ids := make([]digest.Digest, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

func containsDigest(haystack []digest.Digest, needle digest.Digest) bool {
	for _, d := range haystack {
		if d == needle {
			return true
		}
	}
	return false
}

func removeDigest(haystack []digest.Digest, needle digest.Digest) []digest.Digest {
	out := haystack[:0]
	for _, d := range haystack {
		if d != needle {
			out = append(out, d)
		}
	}
	return out
}

// Serialize renders the whole graph as a deterministic binary record: a
// version byte, then every node (sorted by id) with its parent and child
// lists (each independently sorted, so that two graphs with equal logical
// structure always serialize identically regardless of the order their
// edges were added in).
func (g *Graph) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	w := codec.NewWriter(&buf)
	ids := g.CommitHashes()

	w.WriteUint32(uint32(len(ids)))
	for _, id := range ids {
		n := g.nodes[id]
		w.WriteRaw(id[:])

		parents := sortedCopy(n.parents)
		w.WriteUint32(uint32(len(parents)))
		for _, p := range parents {
			w.WriteRaw(p[:])
		}

		children := sortedCopy(n.children)
		w.WriteUint32(uint32(len(children)))
		for _, c := range children {
			w.WriteRaw(c[:])
		}
	}

	if flushErr := w.Flush(); flushErr != nil {
		return nil, flushErr
	}
	return buf.Bytes(), nil
}

func sortedCopy(ids []digest.Digest) []digest.Digest {
	out := append([]digest.Digest(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Parse deserializes a graph record produced by Serialize.
func Parse(data []byte) (*Graph, error) {
	r := codec.NewReader(bytes.NewReader(data))
	count := r.ReadUint32()

	g := New()
	for i := uint32(0); i < count; i++ {
		id := digest.FromSum(r.ReadRaw(digest.Size))
		g.nodes[id] = &neighbors{}
		parentCount := r.ReadUint32()
		r.ReadRaw(int(parentCount) * digest.Size)
		childCount := r.ReadUint32()
		r.ReadRaw(int(childCount) * digest.Size)
	}
	if rerr := r.Err(); rerr != nil {
		return nil, err.Wrap(rerr, pkgName, "parse")
	}

	// Re-read with full node bodies now that every node id is known; a
	// single pass isn't possible because adjacency entries reference ids
	// that may appear later in the stream.
	r = codec.NewReader(bytes.NewReader(data))
	count = r.ReadUint32()
	for i := uint32(0); i < count; i++ {
		id := digest.FromSum(r.ReadRaw(digest.Size))
		n := g.nodes[id]

		parentCount := r.ReadUint32()
		n.parents = make([]digest.Digest, parentCount)
		for j := uint32(0); j < parentCount; j++ {
			n.parents[j] = digest.FromSum(r.ReadRaw(digest.Size))
		}

		childCount := r.ReadUint32()
		n.children = make([]digest.Digest, childCount)
		for j := uint32(0); j < childCount; j++ {
			n.children[j] = digest.FromSum(r.ReadRaw(digest.Size))
		}
	}
	if rerr := r.Err(); rerr != nil {
		return nil, err.Wrap(rerr, pkgName, "parse")
	}

	return g, nil
}

// Write serializes and writes the graph to path, atomically.
func (g *Graph) Write(path string) error {
	data, serErr := g.Serialize()
	if serErr != nil {
		return err.Wrap(serErr, pkgName, "write")
	}
	if writeErr := fileops.AtomicWrite(path, data, fileMode); writeErr != nil {
		return err.New(pkgName, err.CodeIO, "write", "persist graph record", writeErr)
	}
	return nil
}

// Load reads and deserializes the graph at path.
func Load(path string) (*Graph, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, err.New(pkgName, err.CodeNotFound, "load", "graph not found", readErr)
		}
		return nil, err.New(pkgName, err.CodeIO, "load", "read graph record", readErr)
	}
	return Parse(data)
}
