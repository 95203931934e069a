package matching

// Labels of top-level blossoms during a stage.
const (
	labelFree  = 0
	labelS     = 1
	labelT     = 2
	labelBreak = 4 // temporary mark used by scanBlossom
)

// solver holds the state of one MaxWeightMatching run.
//
// Vertices are 0..nvertex-1, non-trivial blossoms nvertex..2*nvertex-1.
// Edge k has endpoints 2k (edges[k].I) and 2k+1 (edges[k].J); the "remote"
// endpoint of p seen from the other side is p^1.
type solver struct {
	edges          []Edge
	nvertex        int
	maxCardinality bool

	endpoint  []int
	neighbend [][]int

	// mate[v] is the remote endpoint of v's matched edge, or -1.
	mate []int

	label    []int
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int

	dualvar   []int64
	allowedge []bool
	queue     []int
}

func newSolver(edges []Edge, nvertex int, maxWeight int64, maxCardinality bool) *solver {
	nedge := len(edges)
	s := &solver{
		edges:          edges,
		nvertex:        nvertex,
		maxCardinality: maxCardinality,
	}

	s.endpoint = make([]int, 2*nedge)
	for p := range s.endpoint {
		if p%2 == 0 {
			s.endpoint[p] = edges[p/2].I
		} else {
			s.endpoint[p] = edges[p/2].J
		}
	}

	s.neighbend = make([][]int, nvertex)
	for k, e := range edges {
		s.neighbend[e.I] = append(s.neighbend[e.I], 2*k+1)
		s.neighbend[e.J] = append(s.neighbend[e.J], 2*k)
	}

	s.mate = fill(make([]int, nvertex), -1)
	s.label = make([]int, 2*nvertex)
	s.labelend = fill(make([]int, 2*nvertex), -1)

	s.inblossom = make([]int, nvertex)
	for v := range s.inblossom {
		s.inblossom[v] = v
	}
	s.blossomparent = fill(make([]int, 2*nvertex), -1)
	s.blossomchilds = make([][]int, 2*nvertex)
	s.blossombase = make([]int, 2*nvertex)
	for b := range s.blossombase {
		if b < nvertex {
			s.blossombase[b] = b
		} else {
			s.blossombase[b] = -1
		}
	}
	s.blossomendps = make([][]int, 2*nvertex)
	s.bestedge = fill(make([]int, 2*nvertex), -1)
	s.blossombestedges = make([][]int, 2*nvertex)
	s.unusedblossoms = make([]int, 0, nvertex)
	for b := nvertex; b < 2*nvertex; b++ {
		s.unusedblossoms = append(s.unusedblossoms, b)
	}

	s.dualvar = make([]int64, 2*nvertex)
	for v := 0; v < nvertex; v++ {
		s.dualvar[v] = maxWeight
	}
	s.allowedge = make([]bool, nedge)
	return s
}

func fill(xs []int, v int) []int {
	for i := range xs {
		xs[i] = v
	}
	return xs
}

// at indexes xs like a Python list, so negative positions count from the end.
func at(xs []int, i int) int {
	if i < 0 {
		i += len(xs)
	}
	return xs[i]
}

func indexOf(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

// slack returns 2*slack of edge k; it is even whenever both ends are S-vertices.
func (s *solver) slack(k int) int64 {
	e := s.edges[k]
	return s.dualvar[e.I] + s.dualvar[e.J] - 2*e.Weight
}

func (s *solver) blossomLeaves(b int) []int {
	if b < s.nvertex {
		return []int{b}
	}
	leaves := make([]int, 0, len(s.blossomchilds[b]))
	var walk func(int)
	walk = func(t int) {
		if t < s.nvertex {
			leaves = append(leaves, t)
			return
		}
		for _, c := range s.blossomchilds[t] {
			walk(c)
		}
	}
	walk(b)
	return leaves
}

// assignLabel labels w's top-level blossom with t, reached through endpoint p.
func (s *solver) assignLabel(w, t, p int) {
	b := s.inblossom[w]
	s.label[w], s.label[b] = t, t
	s.labelend[w], s.labelend[b] = p, p
	s.bestedge[w], s.bestedge[b] = -1, -1
	switch t {
	case labelS:
		s.queue = append(s.queue, s.blossomLeaves(b)...)
	case labelT:
		base := s.blossombase[b]
		s.assignLabel(s.endpoint[s.mate[base]], labelS, s.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find either a new blossom (its
// base is returned) or an augmenting path (-1 is returned).
func (s *solver) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := s.inblossom[v]
		if s.label[b]&labelBreak != 0 {
			base = s.blossombase[b]
			break
		}
		path = append(path, b)
		s.label[b] = labelS | labelBreak
		if s.labelend[b] == -1 {
			v = -1
		} else {
			v = s.endpoint[s.labelend[b]]
			b = s.inblossom[v]
			v = s.endpoint[s.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		s.label[b] = labelS
	}
	return base
}

// addBlossom contracts the blossom formed by edge k with the given base.
func (s *solver) addBlossom(base, k int) {
	v, w := s.edges[k].I, s.edges[k].J
	bb := s.inblossom[base]
	bv := s.inblossom[v]
	bw := s.inblossom[w]

	b := s.unusedblossoms[len(s.unusedblossoms)-1]
	s.unusedblossoms = s.unusedblossoms[:len(s.unusedblossoms)-1]

	s.blossombase[b] = base
	s.blossomparent[b] = -1
	s.blossomparent[bb] = b

	var path, endps []int
	for bv != bb {
		s.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelend[bv])
		v = s.endpoint[s.labelend[bv]]
		bv = s.inblossom[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		s.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelend[bw]^1)
		w = s.endpoint[s.labelend[bw]]
		bw = s.inblossom[w]
	}
	s.blossomchilds[b] = path
	s.blossomendps[b] = endps

	s.label[b] = labelS
	s.labelend[b] = s.labelend[bb]
	s.dualvar[b] = 0

	for _, leaf := range s.blossomLeaves(b) {
		if s.label[s.inblossom[leaf]] == labelT {
			// T-vertices inside the new S-blossom become S-vertices.
			s.queue = append(s.queue, leaf)
		}
		s.inblossom[leaf] = b
	}

	bestedgeto := fill(make([]int, 2*s.nvertex), -1)
	for _, child := range path {
		var nblists [][]int
		if s.blossombestedges[child] == nil {
			for _, leaf := range s.blossomLeaves(child) {
				nb := make([]int, 0, len(s.neighbend[leaf]))
				for _, p := range s.neighbend[leaf] {
					nb = append(nb, p/2)
				}
				nblists = append(nblists, nb)
			}
		} else {
			nblists = [][]int{s.blossombestedges[child]}
		}
		for _, nblist := range nblists {
			for _, ek := range nblist {
				j := s.edges[ek].J
				if s.inblossom[j] == b {
					j = s.edges[ek].I
				}
				bj := s.inblossom[j]
				if bj != b && s.label[bj] == labelS &&
					(bestedgeto[bj] == -1 || s.slack(ek) < s.slack(bestedgeto[bj])) {
					bestedgeto[bj] = ek
				}
			}
		}
		s.blossombestedges[child] = nil
		s.bestedge[child] = -1
	}

	best := make([]int, 0)
	for _, ek := range bestedgeto {
		if ek != -1 {
			best = append(best, ek)
		}
	}
	s.blossombestedges[b] = best
	s.bestedge[b] = -1
	for _, ek := range best {
		if s.bestedge[b] == -1 || s.slack(ek) < s.slack(s.bestedge[b]) {
			s.bestedge[b] = ek
		}
	}
}

func reverse(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// expandBlossom dissolves blossom b into its sub-blossoms.
func (s *solver) expandBlossom(b int, endstage bool) {
	for _, child := range s.blossomchilds[b] {
		s.blossomparent[child] = -1
		switch {
		case child < s.nvertex:
			s.inblossom[child] = child
		case endstage && s.dualvar[child] == 0:
			s.expandBlossom(child, endstage)
		default:
			for _, leaf := range s.blossomLeaves(child) {
				s.inblossom[leaf] = child
			}
		}
	}

	if !endstage && s.label[b] == labelT {
		// Relabel the sub-blossoms on the even-length path from the entry
		// child to the base as alternately T and S.
		childs := s.blossomchilds[b]
		endps := s.blossomendps[b]
		entrychild := s.inblossom[s.endpoint[s.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		var jstep, endptrick int
		if j&1 != 0 {
			j -= len(childs)
			jstep = 1
			endptrick = 0
		} else {
			jstep = -1
			endptrick = 1
		}
		p := s.labelend[b]
		for j != 0 {
			s.label[s.endpoint[p^1]] = labelFree
			s.label[s.endpoint[at(endps, j-endptrick)^endptrick^1]] = labelFree
			s.assignLabel(s.endpoint[p^1], labelT, p)
			s.allowedge[at(endps, j-endptrick)/2] = true
			j += jstep
			p = at(endps, j-endptrick) ^ endptrick
			s.allowedge[p/2] = true
			j += jstep
		}
		bv := at(childs, j)
		s.label[s.endpoint[p^1]] = labelT
		s.label[bv] = labelT
		s.labelend[s.endpoint[p^1]] = p
		s.labelend[bv] = p
		s.bestedge[bv] = -1
		j += jstep
		for at(childs, j) != entrychild {
			bv = at(childs, j)
			if s.label[bv] == labelS {
				j += jstep
				continue
			}
			reached := -1
			for _, leaf := range s.blossomLeaves(bv) {
				if s.label[leaf] != labelFree {
					reached = leaf
					break
				}
			}
			if reached != -1 {
				s.label[reached] = labelFree
				s.label[s.endpoint[s.mate[s.blossombase[bv]]]] = labelFree
				s.assignLabel(reached, labelT, s.labelend[reached])
			}
			j += jstep
		}
	}

	s.label[b] = -1
	s.labelend[b] = -1
	s.blossomchilds[b] = nil
	s.blossomendps[b] = nil
	s.blossombase[b] = -1
	s.blossombestedges[b] = nil
	s.bestedge[b] = -1
	s.unusedblossoms = append(s.unusedblossoms, b)
}

// augmentBlossom swaps matched and unmatched edges inside b so that vertex v
// becomes its new base.
func (s *solver) augmentBlossom(b, v int) {
	t := v
	for s.blossomparent[t] != b {
		t = s.blossomparent[t]
	}
	if t >= s.nvertex {
		s.augmentBlossom(t, v)
	}

	childs := s.blossomchilds[b]
	endps := s.blossomendps[b]
	i := indexOf(childs, t)
	j := i
	var jstep, endptrick int
	if i&1 != 0 {
		j -= len(childs)
		jstep = 1
		endptrick = 0
	} else {
		jstep = -1
		endptrick = 1
	}
	for j != 0 {
		j += jstep
		t = at(childs, j)
		p := at(endps, j-endptrick) ^ endptrick
		if t >= s.nvertex {
			s.augmentBlossom(t, s.endpoint[p])
		}
		j += jstep
		t = at(childs, j)
		if t >= s.nvertex {
			s.augmentBlossom(t, s.endpoint[p^1])
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}

	s.blossomchilds[b] = rotate(childs, i)
	s.blossomendps[b] = rotate(endps, i)
	s.blossombase[b] = s.blossombase[s.blossomchilds[b][0]]
}

func rotate(xs []int, i int) []int {
	out := make([]int, 0, len(xs))
	out = append(out, xs[i:]...)
	return append(out, xs[:i]...)
}

// augmentMatching flips the augmenting path running through edge k.
func (s *solver) augmentMatching(k int) {
	v, w := s.edges[k].I, s.edges[k].J
	for _, start := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		sv, p := start[0], start[1]
		for {
			bs := s.inblossom[sv]
			if bs >= s.nvertex {
				s.augmentBlossom(bs, sv)
			}
			s.mate[sv] = p
			if s.labelend[bs] == -1 {
				// Reached a single vertex; the path ends here.
				break
			}
			t := s.endpoint[s.labelend[bs]]
			bt := s.inblossom[t]
			sv = s.endpoint[s.labelend[bt]]
			j := s.endpoint[s.labelend[bt]^1]
			if bt >= s.nvertex {
				s.augmentBlossom(bt, j)
			}
			s.mate[j] = s.labelend[bt]
			p = s.labelend[bt] ^ 1
		}
	}
}

const (
	deltaNone = iota
	deltaVertexDual
	deltaFreeEdge
	deltaSEdge
	deltaBlossomDual
)

func (s *solver) solve() []int {
	n := s.nvertex

	for stage := 0; stage < n; stage++ {
		for i := range s.label {
			s.label[i] = labelFree
		}
		fill(s.bestedge, -1)
		for b := n; b < 2*n; b++ {
			s.blossombestedges[b] = nil
		}
		for i := range s.allowedge {
			s.allowedge[i] = false
		}
		s.queue = s.queue[:0]

		for v := 0; v < n; v++ {
			if s.mate[v] == -1 && s.label[s.inblossom[v]] == labelFree {
				s.assignLabel(v, labelS, -1)
			}
		}

		augmented := false
		for {
			for len(s.queue) > 0 && !augmented {
				v := s.queue[len(s.queue)-1]
				s.queue = s.queue[:len(s.queue)-1]

				for _, p := range s.neighbend[v] {
					k := p / 2
					w := s.endpoint[p]
					if s.inblossom[v] == s.inblossom[w] {
						continue
					}
					var kslack int64
					if !s.allowedge[k] {
						kslack = s.slack(k)
						if kslack <= 0 {
							s.allowedge[k] = true
						}
					}
					switch {
					case s.allowedge[k]:
						switch {
						case s.label[s.inblossom[w]] == labelFree:
							s.assignLabel(w, labelT, p^1)
						case s.label[s.inblossom[w]] == labelS:
							base := s.scanBlossom(v, w)
							if base >= 0 {
								s.addBlossom(base, k)
							} else {
								s.augmentMatching(k)
								augmented = true
							}
						case s.label[w] == labelFree:
							// w is inside a T-blossom but not yet reached from
							// outside; remember how it was reached.
							s.label[w] = labelT
							s.labelend[w] = p ^ 1
						}
					case s.label[s.inblossom[w]] == labelS:
						b := s.inblossom[v]
						if s.bestedge[b] == -1 || kslack < s.slack(s.bestedge[b]) {
							s.bestedge[b] = k
						}
					case s.label[w] == labelFree:
						if s.bestedge[w] == -1 || kslack < s.slack(s.bestedge[w]) {
							s.bestedge[w] = k
						}
					}
					if augmented {
						break
					}
				}
			}
			if augmented {
				break
			}

			deltatype := deltaNone
			var delta int64
			deltaedge, deltablossom := -1, -1

			if !s.maxCardinality {
				deltatype = deltaVertexDual
				delta = minDual(s.dualvar[:n])
			}
			for v := 0; v < n; v++ {
				if s.label[s.inblossom[v]] == labelFree && s.bestedge[v] != -1 {
					d := s.slack(s.bestedge[v])
					if deltatype == deltaNone || d < delta {
						delta = d
						deltatype = deltaFreeEdge
						deltaedge = s.bestedge[v]
					}
				}
			}
			for b := 0; b < 2*n; b++ {
				if s.blossomparent[b] == -1 && s.label[b] == labelS && s.bestedge[b] != -1 {
					d := s.slack(s.bestedge[b]) / 2
					if deltatype == deltaNone || d < delta {
						delta = d
						deltatype = deltaSEdge
						deltaedge = s.bestedge[b]
					}
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 && s.label[b] == labelT &&
					(deltatype == deltaNone || s.dualvar[b] < delta) {
					delta = s.dualvar[b]
					deltatype = deltaBlossomDual
					deltablossom = b
				}
			}
			if deltatype == deltaNone {
				// No further improvement possible; max-cardinality optimum
				// reached. Do a final delta update to make the optimum
				// verifiable.
				deltatype = deltaVertexDual
				delta = minDual(s.dualvar[:n])
				if delta < 0 {
					delta = 0
				}
			}

			for v := 0; v < n; v++ {
				switch s.label[s.inblossom[v]] {
				case labelS:
					s.dualvar[v] -= delta
				case labelT:
					s.dualvar[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 {
					switch s.label[b] {
					case labelS:
						s.dualvar[b] += delta
					case labelT:
						s.dualvar[b] -= delta
					}
				}
			}

			switch deltatype {
			case deltaVertexDual:
				// No further improvement possible; optimum reached.
			case deltaFreeEdge:
				s.allowedge[deltaedge] = true
				i := s.edges[deltaedge].I
				if s.label[s.inblossom[i]] == labelFree {
					i = s.edges[deltaedge].J
				}
				s.queue = append(s.queue, i)
			case deltaSEdge:
				s.allowedge[deltaedge] = true
				s.queue = append(s.queue, s.edges[deltaedge].I)
			case deltaBlossomDual:
				s.expandBlossom(deltablossom, false)
			}
			if deltatype == deltaVertexDual {
				break
			}
		}

		if !augmented {
			break
		}

		// End of stage: expand all S-blossoms with zero dual.
		for b := n; b < 2*n; b++ {
			if s.blossomparent[b] == -1 && s.blossombase[b] >= 0 &&
				s.label[b] == labelS && s.dualvar[b] == 0 {
				s.expandBlossom(b, true)
			}
		}
	}

	result := make([]int, n)
	for v := 0; v < n; v++ {
		if s.mate[v] >= 0 {
			result[v] = s.endpoint[s.mate[v]]
		} else {
			result[v] = Unmatched
		}
	}
	return result
}

func minDual(xs []int64) int64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
