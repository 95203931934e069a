package matching

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxWeightMatchingKnownGraphs(t *testing.T) {
	tests := []struct {
		name           string
		edges          []Edge
		maxCardinality bool
		expected       []int
	}{
		{
			name:     "empty",
			edges:    nil,
			expected: []int{},
		},
		{
			name:     "single edge",
			edges:    []Edge{{0, 1, 1}},
			expected: []int{1, 0},
		},
		{
			name:     "path prefers heavier middle edge",
			edges:    []Edge{{1, 2, 10}, {2, 3, 11}},
			expected: []int{Unmatched, Unmatched, 3, 2},
		},
		{
			name:     "path of three edges",
			edges:    []Edge{{1, 2, 5}, {2, 3, 11}, {3, 4, 5}},
			expected: []int{Unmatched, Unmatched, 3, 2, Unmatched},
		},
		{
			name:           "path of three edges with max cardinality",
			edges:          []Edge{{1, 2, 5}, {2, 3, 11}, {3, 4, 5}},
			maxCardinality: true,
			expected:       []int{Unmatched, 2, 1, 4, 3},
		},
		{
			name:     "negative weights are skipped",
			edges:    []Edge{{1, 2, 2}, {1, 3, -2}, {2, 3, 1}, {2, 4, -1}, {3, 4, -6}},
			expected: []int{Unmatched, 2, 1, Unmatched, Unmatched},
		},
		{
			name:           "negative weights with max cardinality",
			edges:          []Edge{{1, 2, 2}, {1, 3, -2}, {2, 3, 1}, {2, 4, -1}, {3, 4, -6}},
			maxCardinality: true,
			expected:       []int{Unmatched, 3, 4, 1, 2},
		},
		{
			name:     "S-blossom then augment",
			edges:    []Edge{{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}},
			expected: []int{Unmatched, 2, 1, 4, 3},
		},
		{
			name:     "S-blossom with extra edges",
			edges:    []Edge{{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}, {1, 6, 5}, {4, 5, 6}},
			expected: []int{Unmatched, 6, 3, 2, 5, 4, 1},
		},
		{
			name:     "T-blossom relabel",
			edges:    []Edge{{1, 2, 9}, {1, 3, 8}, {2, 3, 10}, {1, 4, 5}, {4, 5, 4}, {1, 6, 3}},
			expected: []int{Unmatched, 6, 3, 2, 5, 4, 1},
		},
		{
			name:     "nested S-blossom",
			edges:    []Edge{{1, 2, 9}, {1, 3, 9}, {2, 3, 10}, {2, 4, 8}, {3, 5, 8}, {4, 5, 10}, {5, 6, 6}},
			expected: []int{Unmatched, 3, 4, 1, 2, 6, 5},
		},
		{
			name:     "nested S-blossom relabel and expand",
			edges:    []Edge{{1, 2, 10}, {1, 7, 10}, {2, 3, 12}, {3, 4, 20}, {3, 5, 20}, {4, 5, 25}, {5, 6, 10}, {6, 7, 10}, {7, 8, 8}},
			expected: []int{Unmatched, 2, 1, 4, 3, 6, 5, 8, 7},
		},
		{
			name:     "nested blossom expanded during relabel",
			edges:    []Edge{{1, 2, 23}, {1, 5, 22}, {1, 6, 15}, {2, 3, 25}, {3, 4, 22}, {4, 5, 25}, {4, 8, 14}, {5, 7, 13}},
			expected: []int{Unmatched, 6, 3, 2, 8, 7, 1, 5, 4},
		},
		{
			name:     "nested S-blossom expand recursively",
			edges:    []Edge{{1, 2, 19}, {1, 3, 20}, {1, 8, 8}, {2, 3, 25}, {2, 4, 18}, {3, 5, 18}, {4, 5, 13}, {4, 7, 7}, {5, 6, 7}},
			expected: []int{Unmatched, 8, 3, 2, 7, 6, 5, 4, 1},
		},
		{
			name:     "blossom with least-slack edge to inner vertex",
			edges:    []Edge{{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50}, {1, 6, 30}, {3, 9, 35}, {4, 8, 35}, {5, 7, 26}, {9, 10, 5}},
			expected: []int{Unmatched, 6, 3, 2, 8, 7, 1, 5, 4, 10, 9},
		},
		{
			name:     "nested T-blossom augment",
			edges:    []Edge{{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50}, {1, 6, 30}, {3, 9, 35}, {4, 8, 26}, {5, 7, 40}, {9, 10, 5}},
			expected: []int{Unmatched, 6, 3, 2, 8, 7, 1, 5, 4, 10, 9},
		},
		{
			name:     "create nested blossom, relabel as T, expand",
			edges:    []Edge{{1, 2, 40}, {1, 3, 40}, {2, 3, 60}, {2, 4, 55}, {3, 5, 55}, {4, 5, 50}, {1, 8, 15}, {5, 7, 30}, {7, 6, 10}, {8, 10, 10}, {4, 9, 30}},
			expected: []int{Unmatched, 2, 1, 5, 9, 3, 7, 6, 10, 4, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxWeightMatching(tt.edges, tt.maxCardinality)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMaxWeightMatchingPanicsOnInvalidEdges(t *testing.T) {
	assert.Panics(t, func() { MaxWeightMatching([]Edge{{0, 0, 1}}, true) })
	assert.Panics(t, func() { MaxWeightMatching([]Edge{{-1, 2, 1}}, true) })
}

func TestBlossomImplementsMatch(t *testing.T) {
	got := Blossom{}.Match([]Edge{{0, 1, 3}, {1, 2, 4}, {2, 3, 3}}, true)
	assert.Equal(t, []int{1, 0, 3, 2}, got)
}

func TestMaxWeightMatchingAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 400; iter++ {
		n := 2 + rng.Intn(7)
		var edges []Edge
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Intn(3) == 0 {
					continue
				}
				edges = append(edges, Edge{I: i, J: j, Weight: int64(rng.Intn(21) - 5)})
			}
		}
		if len(edges) == 0 {
			continue
		}

		for _, maxCard := range []bool{false, true} {
			mate := MaxWeightMatching(edges, maxCard)
			card, weight := checkMatching(t, edges, mate)
			wantCard, wantWeight := bruteForce(edges, maxCard)

			if maxCard {
				require.Equal(t, wantCard, card, "cardinality mismatch for %v", edges)
			}
			require.Equal(t, wantWeight, weight, "weight mismatch for %v (maxCardinality=%v)", edges, maxCard)
		}
	}
}

// checkMatching asserts mate is a symmetric matching using only given edges
// and returns its cardinality and weight.
func checkMatching(t *testing.T, edges []Edge, mate []int) (int, int64) {
	t.Helper()
	weights := map[[2]int]int64{}
	for _, e := range edges {
		weights[[2]int{e.I, e.J}] = e.Weight
		weights[[2]int{e.J, e.I}] = e.Weight
	}

	card := 0
	var total int64
	for v, w := range mate {
		if w == Unmatched {
			continue
		}
		require.Equal(t, v, mate[w], "matching is not symmetric at %d", v)
		wt, ok := weights[[2]int{v, w}]
		require.True(t, ok, "pair (%d, %d) is not an edge", v, w)
		if v < w {
			card++
			total += wt
		}
	}
	return card, total
}

func bruteForce(edges []Edge, maxCardinality bool) (int, int64) {
	n := 0
	for _, e := range edges {
		if e.I >= n {
			n = e.I + 1
		}
		if e.J >= n {
			n = e.J + 1
		}
	}
	used := make([]bool, n)
	bestCard, bestWeight := 0, int64(0)

	var rec func(k, card int, weight int64)
	rec = func(k, card int, weight int64) {
		if k == len(edges) {
			if maxCardinality {
				if card > bestCard || (card == bestCard && weight > bestWeight) {
					bestCard, bestWeight = card, weight
				}
			} else if weight > bestWeight {
				bestCard, bestWeight = card, weight
			}
			return
		}
		rec(k+1, card, weight)
		e := edges[k]
		if !used[e.I] && !used[e.J] {
			used[e.I], used[e.J] = true, true
			rec(k+1, card+1, weight+e.Weight)
			used[e.I], used[e.J] = false, false
		}
	}
	rec(0, 0, 0)
	return bestCard, bestWeight
}
