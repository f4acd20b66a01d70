package graph

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"
)

// Common test and dataset topologies, built through lvlath so the
// conversion path from a real graph is always exercised.

// Path returns the edge index of an undirected path over n nodes.
func Path(n int) (*EdgeIndex, error) {
	g, _ := core.NewGraph() // cannot fail without options
	for i := 0; i < n; i++ {
		if err := g.AddVertex(nodeID(i)); err != nil {
			return nil, err
		}
	}
	for i := 0; i+1 < n; i++ {
		if _, err := g.AddEdge(nodeID(i), nodeID(i+1), 0); err != nil {
			return nil, err
		}
	}
	e, _, err := FromGraph(g)
	return e, err
}

// Ring returns the edge index of an undirected cycle over n nodes.
func Ring(n int) (*EdgeIndex, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: ring needs at least 3 nodes, got %d", ErrNoNodes, n)
	}
	g, _ := core.NewGraph() // cannot fail without options
	for i := 0; i < n; i++ {
		if err := g.AddVertex(nodeID(i)); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if _, err := g.AddEdge(nodeID(i), nodeID((i+1)%n), 0); err != nil {
			return nil, err
		}
	}
	e, _, err := FromGraph(g)
	return e, err
}

// Star returns the edge index of an undirected star with node 0 at
// the center.
func Star(n int) (*EdgeIndex, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: star needs at least 2 nodes, got %d", ErrNoNodes, n)
	}
	g, _ := core.NewGraph() // cannot fail without options
	for i := 0; i < n; i++ {
		if err := g.AddVertex(nodeID(i)); err != nil {
			return nil, err
		}
	}
	for i := 1; i < n; i++ {
		if _, err := g.AddEdge(nodeID(0), nodeID(i), 0); err != nil {
			return nil, err
		}
	}
	e, _, err := FromGraph(g)
	return e, err
}

// nodeID formats indices with a fixed width so the lexicographic vertex
// order reported by lvlath matches numeric order.
func nodeID(i int) string { return fmt.Sprintf("n%06d", i) }
