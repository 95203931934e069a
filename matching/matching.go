// Package matching computes maximum-weight matchings on general (not
// necessarily bipartite) undirected graphs.
//
// The implementation follows Edmonds' blossom algorithm with the primal-dual
// method described by Galil ("Efficient algorithms for finding maximum
// matching in graphs", 1986) and runs in O(n^3) time for n vertices. Weights
// are integers; all dual variables are kept doubled so every step stays
// exact.
package matching

import "fmt"

// Unmatched marks a vertex without a partner in the result of MaxWeightMatching.
const Unmatched = -1

// Edge is an undirected weighted edge between vertex indices I and J.
type Edge struct {
	I      int
	J      int
	Weight int64
}

// Blossom is the default matcher. The zero value is ready to use.
type Blossom struct{}

// Match implements the matcher contract used by the pairing engine.
func (Blossom) Match(edges []Edge, maxCardinality bool) []int {
	return MaxWeightMatching(edges, maxCardinality)
}

// MaxWeightMatching returns, for every vertex 0..n-1 (n is one more than the
// largest index mentioned by an edge), the index of its partner or Unmatched.
//
// When maxCardinality is true the result is a maximum-cardinality matching
// and, among those, one of maximum total weight. Otherwise only the weight is
// maximised, so edges with non-positive weight may be left out.
//
// Self loops and negative vertex indices are programming errors and panic.
func MaxWeightMatching(edges []Edge, maxCardinality bool) []int {
	if len(edges) == 0 {
		return []int{}
	}

	nvertex := 0
	var maxWeight int64
	for _, e := range edges {
		if e.I < 0 || e.J < 0 {
			panic(fmt.Sprintf("matching: negative vertex index in edge (%d, %d)", e.I, e.J))
		}
		if e.I == e.J {
			panic(fmt.Sprintf("matching: self loop on vertex %d", e.I))
		}
		if e.I >= nvertex {
			nvertex = e.I + 1
		}
		if e.J >= nvertex {
			nvertex = e.J + 1
		}
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}

	s := newSolver(edges, nvertex, maxWeight, maxCardinality)
	return s.solve()
}
