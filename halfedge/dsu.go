package halfedge

// dsu is a disjoint-set union over dense integer ids (face ids), used by
// the stitcher to accumulate edge-connectivity components. Grounded on the
// union-find idiom in katalvlaran-lvlath's Kruskal MST implementation
// (iterative path compression + union by rank), re-keyed from string
// vertex ids to dense integer face ids per spec's own design note away
// from pointer/string hashing.
type dsu struct {
	parent []int
	rank   []int
}

func newDSU(n int) *dsu {
	d := &dsu{
		parent: make([]int, n),
		rank:   make([]int, n),
	}

	for i := range d.parent {
		d.parent[i] = i
	}

	return d
}

// find returns the representative of x's set, path-compressing along the
// way.
func (d *dsu) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}

	return x
}

// union merges the sets containing x and y, returning the representative
// of the merged set.
func (d *dsu) union(x, y int) int {
	rx, ry := d.find(x), d.find(y)

	if rx == ry {
		return rx
	}

	if d.rank[rx] < d.rank[ry] {
		rx, ry = ry, rx
	}

	d.parent[ry] = rx

	if d.rank[rx] == d.rank[ry] {
		d.rank[rx]++
	}

	return rx
}

// components returns a mapping from face id to dense component index
// (0..numComponents), plus the size of each component.
func (d *dsu) components() ([]int, []int) {
	roots := make(map[int]int)
	indexSet := make([]int, len(d.parent))

	for i := range d.parent {
		root := d.find(i)

		idx, ok := roots[root]
		if !ok {
			idx = len(roots)
			roots[root] = idx
		}

		indexSet[i] = idx
	}

	setSize := make([]int, len(roots))
	for _, idx := range indexSet {
		setSize[idx]++
	}

	return indexSet, setSize
}
