package graph

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"
)

// EdgeIndex is a directed edge list over nodes numbered 0..n-1.
// Edge k runs from Src[k] to Dst[k]. Message passing aggregates
// over in-neighbors, so an undirected link needs both directions.
type EdgeIndex struct {
	Src []int
	Dst []int

	nodes int
	in    [][]int
}

// NewEdgeIndex builds an edge index over n nodes from parallel
// src/dst slices. Endpoints are validated eagerly.
func NewEdgeIndex(n int, src, dst []int) (*EdgeIndex, error) {
	if n <= 0 {
		return nil, ErrNoNodes
	}
	if len(src) != len(dst) {
		return nil, fmt.Errorf("%w: %d src, %d dst", ErrLengthMismatch, len(src), len(dst))
	}
	for k := range src {
		if src[k] < 0 || src[k] >= n || dst[k] < 0 || dst[k] >= n {
			return nil, fmt.Errorf("%w: edge %d (%d -> %d) with %d nodes", ErrNodeOutOfRange, k, src[k], dst[k], n)
		}
	}

	e := &EdgeIndex{
		Src:   append([]int(nil), src...),
		Dst:   append([]int(nil), dst...),
		nodes: n,
	}
	e.buildNeighbors()
	return e, nil
}

// FromGraph converts a lvlath graph into an edge index. Vertex IDs are
// mapped to dense indices in the sorted order reported by g.Vertices(),
// so the conversion is deterministic. Undirected graphs contribute both
// directions per edge.
func FromGraph(g *core.Graph) (*EdgeIndex, map[string]int, error) {
	if g == nil {
		return nil, nil, ErrNilGraph
	}

	ids := g.Vertices()
	if len(ids) == 0 {
		return nil, nil, ErrNoNodes
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	var src, dst []int
	for _, edge := range g.Edges() {
		from, to := index[edge.From], index[edge.To]
		src = append(src, from)
		dst = append(dst, to)
		if !g.Directed() && from != to {
			src = append(src, to)
			dst = append(dst, from)
		}
	}

	e, err := NewEdgeIndex(len(ids), src, dst)
	if err != nil {
		return nil, nil, err
	}
	return e, index, nil
}

func (e *EdgeIndex) buildNeighbors() {
	e.in = make([][]int, e.nodes)
	for k := range e.Src {
		e.in[e.Dst[k]] = append(e.in[e.Dst[k]], e.Src[k])
	}
}

// NumNodes returns the node count the index was built over.
func (e *EdgeIndex) NumNodes() int { return e.nodes }

// NumEdges returns the directed edge count.
func (e *EdgeIndex) NumEdges() int { return len(e.Src) }

// InNeighbors returns the source nodes of edges pointing at node i.
// The returned slice is shared; callers must not mutate it.
func (e *EdgeIndex) InNeighbors(i int) []int { return e.in[i] }
