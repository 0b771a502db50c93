package halfedge

import "github.com/solidkit/meshcore"

// BoundaryChain is one ordered loop of vertex ids traced from a mesh's
// open half-edges. Closed reports whether the chain returned to its
// starting vertex (a bounded hole) as opposed to a free (non-looping)
// boundary path.
type BoundaryChain struct {
	Vertices []int
	HalfEdges []int
	Closed    bool
}

// BoundaryChains extracts the open-half-edge chains of a mesh. It indexes
// the open half-edges by origin vertex and repeatedly extracts a path,
// removing its edges from the index, until none remain. Paths follow each
// half-edge's own direction (origin to destination); an open half-edge is
// never traversed backwards.
func BoundaryChains(mesh *Mesh, faces []Face, halfEdges []HalfEdge) []BoundaryChain {
	remaining := make(map[int]bool, len(mesh.OpenEdges))
	byOrigin := make(map[int][]int)

	for _, heID := range mesh.OpenEdges {
		remaining[heID] = true
		origin := halfEdges[heID].Origin
		byOrigin[origin] = append(byOrigin[origin], heID)
	}

	var chains []BoundaryChain

	for len(remaining) > 0 {
		var start int
		for heID := range remaining {
			start = heID
			break
		}

		chain := BoundaryChain{}
		current := start

		for {
			he := halfEdges[current]
			chain.Vertices = append(chain.Vertices, he.Origin)
			chain.HalfEdges = append(chain.HalfEdges, current)
			delete(remaining, current)

			dest := halfEdges[he.Next].Origin
			if dest == halfEdges[start].Origin {
				chain.Closed = true
				break
			}

			next, ok := nextOpenEdge(dest, byOrigin, remaining)
			if !ok {
				break
			}

			current = next
		}

		chains = append(chains, chain)
	}

	return chains
}

// nextOpenEdge finds an unconsumed open half-edge originating at vertex v.
func nextOpenEdge(v int, byOrigin map[int][]int, remaining map[int]bool) (int, bool) {
	for _, heID := range byOrigin[v] {
		if remaining[heID] {
			return heID, true
		}
	}

	return 0, false
}

// SynthesizePatchFaces promotes every closed, (near-)planar boundary chain
// of a mesh into a new face filling the hole, wound opposite to the chain
// so its half-edges pair with the open ones. The new faces are appended
// to the arena unstitched (Mesh == noMesh); the caller is expected to
// re-run Stitch to fold them back into a mesh partition. Returns the new
// face ids.
func SynthesizePatchFaces(mesh *Mesh, vertices []Vertex, faces *[]Face, halfEdges *[]HalfEdge, tol Tolerances) []int {
	chains := BoundaryChains(mesh, *faces, *halfEdges)

	var created []int

	for _, chain := range chains {
		if !chain.Closed || len(chain.Vertices) < 3 {
			continue
		}

		n := len(chain.Vertices)
		loop := make([]int, n)
		positions := make([]meshcore.Vector, n)
		for i, v := range chain.Vertices {
			loop[n-1-i] = v
			positions[n-1-i] = vertices[v].Point
		}

		if !isPlanar(positions, tol) {
			continue
		}

		faceID := len(*faces)
		face, edges, err := buildFace(loop, positions, faceID, len(*halfEdges), tol)
		if err != nil {
			continue
		}

		*faces = append(*faces, face)
		*halfEdges = append(*halfEdges, edges...)
		created = append(created, faceID)
	}

	return created
}

// isPlanar reports whether every point lies within tol.Planar of the plane
// fit through the loop.
func isPlanar(positions []meshcore.Vector, tol Tolerances) bool {
	normal, offset, _, _, err := newellPlane(positions, tol)
	if err != nil {
		return false
	}

	for _, p := range positions {
		if d := normal.Dot(p) - offset; d > tol.Planar || d < -tol.Planar {
			return false
		}
	}

	return true
}
