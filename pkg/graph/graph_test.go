package graph_test

import (
	"path/filepath"
	"testing"

	"github.com/Who23/ink/pkg/digest"
	"github.com/Who23/ink/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	firstID  = digest.Sum([]byte("first"))
	secondID = digest.Sum([]byte("second"))
	thirdID  = digest.Sum([]byte("third"))
)

func TestAddingNode(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))

	assert.True(t, g.Has(firstID))
	assert.True(t, g.Has(secondID))
	assert.Empty(t, g.Parents(firstID))
	assert.Empty(t, g.Children(firstID))
}

func TestAddingDuplicateNodeID(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))

	err := g.AddNode(firstID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: add_node: ID is already in the graph")
}

func TestRemovingValidNode(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))

	require.NoError(t, g.RemoveNode(secondID))
	assert.False(t, g.Has(secondID))
	assert.True(t, g.Has(firstID))
}

func TestRemovingInvalidNode(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))

	err := g.RemoveNode(thirdID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: remove_node: Invalid Node ID")
}

func TestAddingValidEdge(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddEdge(firstID, secondID))

	assert.Equal(t, []digest.Digest{secondID}, g.Children(firstID))
	assert.Equal(t, []digest.Digest{firstID}, g.Parents(secondID))
}

func TestAddingInvalidEdge(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddEdge(firstID, secondID))

	err := g.AddEdge(thirdID, secondID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: add_edge: Invalid Node ID for 'from' node")

	err = g.AddEdge(firstID, thirdID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: add_edge: Invalid Node ID for 'to' node")

	err = g.AddEdge(firstID, secondID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: add_edge: 'from' node already contains an edge to 'to' node")
}

func TestRemovingValidEdge(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddEdge(firstID, secondID))
	require.NoError(t, g.AddEdge(secondID, firstID))

	require.NoError(t, g.RemoveEdge(firstID, secondID))

	assert.Empty(t, g.Children(firstID))
	assert.Equal(t, []digest.Digest{secondID}, g.Parents(firstID))
	assert.Equal(t, []digest.Digest{firstID}, g.Children(secondID))
	assert.Empty(t, g.Parents(secondID))
}

func TestRemovingInvalidEdge(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddEdge(firstID, secondID))

	err := g.RemoveEdge(thirdID, secondID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: remove_edge: Invalid ID for 'from' node")

	err = g.RemoveEdge(firstID, thirdID)
	assert.EqualError(t, err, "[graph][GRAPH_INVARIANT]: remove_edge: Invalid ID for 'to' node")

	require.NoError(t, g.RemoveEdge(firstID, secondID))

	err = g.RemoveEdge(firstID, secondID)
	assert.EqualError(t, err,
		"[graph][GRAPH_INVARIANT]: remove_edge: No edge exists between the 'from' node and the 'to' node")
}

func TestRemoveNodeClearsIncidentEdgesOnBothSides(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddNode(thirdID))
	require.NoError(t, g.AddEdge(firstID, secondID))
	require.NoError(t, g.AddEdge(secondID, thirdID))

	require.NoError(t, g.RemoveNode(secondID))

	assert.Empty(t, g.Children(firstID))
	assert.Empty(t, g.Parents(thirdID))
}

func TestCommitHashesIsSortedAndComplete(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(thirdID))

	hashes := g.CommitHashes()
	require.Len(t, hashes, 3)
	for i := 1; i < len(hashes); i++ {
		assert.True(t, hashes[i-1].Less(hashes[i]))
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddNode(thirdID))
	require.NoError(t, g.AddEdge(firstID, secondID))
	require.NoError(t, g.AddEdge(secondID, thirdID))

	data, serErr := g.Serialize()
	require.NoError(t, serErr)

	loaded, parseErr := graph.Parse(data)
	require.NoError(t, parseErr)

	assert.Equal(t, g.CommitHashes(), loaded.CommitHashes())
	assert.Equal(t, g.Children(firstID), loaded.Children(firstID))
	assert.Equal(t, g.Parents(thirdID), loaded.Parents(thirdID))
}

func TestSerializeIsDeterministicRegardlessOfEdgeInsertionOrder(t *testing.T) {
	g1 := graph.New()
	require.NoError(t, g1.AddNode(firstID))
	require.NoError(t, g1.AddNode(secondID))
	require.NoError(t, g1.AddNode(thirdID))
	require.NoError(t, g1.AddEdge(firstID, secondID))
	require.NoError(t, g1.AddEdge(firstID, thirdID))

	g2 := graph.New()
	require.NoError(t, g2.AddNode(thirdID))
	require.NoError(t, g2.AddNode(secondID))
	require.NoError(t, g2.AddNode(firstID))
	require.NoError(t, g2.AddEdge(firstID, thirdID))
	require.NoError(t, g2.AddEdge(firstID, secondID))

	data1, err1 := g1.Serialize()
	require.NoError(t, err1)
	data2, err2 := g2.Serialize()
	require.NoError(t, err2)

	assert.Equal(t, data1, data2)
}

func TestWriteThenLoadRoundTrips(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(firstID))
	require.NoError(t, g.AddNode(secondID))
	require.NoError(t, g.AddEdge(firstID, secondID))

	path := filepath.Join(t.TempDir(), "graph")
	require.NoError(t, g.Write(path))

	loaded, err := graph.Load(path)
	require.NoError(t, err)
	assert.Equal(t, g.CommitHashes(), loaded.CommitHashes())
}
