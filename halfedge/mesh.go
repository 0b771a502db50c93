package halfedge

// Mesh is an edge-connected set of faces: one component produced by the
// stitcher's DSU partition. A Mesh owns the face ids that belong to it and
// classifies every half-edge of those faces as open (no twin) or closed
// (twin present, stored canonically once per pair).
type Mesh struct {
	FaceIDs     []int
	OpenEdges   []int
	ClosedEdges []int
	IsNegative  bool

	meshSet *MeshSet
}

// IsClosed reports whether the mesh has no open (boundary) half-edges.
func (m *Mesh) IsClosed() bool {
	return len(m.OpenEdges) == 0
}

// MeshSet returns the owning MeshSet, or nil before one has been assigned.
func (m *Mesh) MeshSet() *MeshSet {
	return m.meshSet
}

// assembleMeshes buckets a stitched face arena into per-component Mesh
// objects. indexSet/setSize come from the stitcher's DSU query.
func assembleMeshes(faces []Face, halfEdges []HalfEdge, indexSet, setSize []int) []*Mesh {
	meshes := make([]*Mesh, len(setSize))

	for i := range meshes {
		meshes[i] = &Mesh{FaceIDs: make([]int, 0, setSize[i])}
	}

	for faceID := range faces {
		comp := indexSet[faceID]
		meshes[comp].FaceIDs = append(meshes[comp].FaceIDs, faceID)
		faces[faceID].Mesh = comp
	}

	for _, mesh := range meshes {
		for _, faceID := range mesh.FaceIDs {
			face := faces[faceID]

			for _, heID := range faceHalfEdgeIDs(face, halfEdges) {
				he := halfEdges[heID]

				if he.IsBoundary() {
					mesh.OpenEdges = append(mesh.OpenEdges, heID)
				} else if heID < he.Twin {
					// Canonical choice: the lower-index half-edge of the
					// pair represents the closed edge exactly once.
					mesh.ClosedEdges = append(mesh.ClosedEdges, heID)
				}
			}
		}

		mesh.IsNegative = mesh.IsClosed() && signedVolume(mesh, faces) < 0
	}

	return meshes
}

// faceHalfEdgeIDs walks a face's ring, returning its half-edge arena
// indices in traversal order.
func faceHalfEdgeIDs(face Face, halfEdges []HalfEdge) []int {
	ids := make([]int, 0, face.NEdges)
	current := face.Edge

	for {
		ids = append(ids, current)
		current = halfEdges[current].Next

		if current == face.Edge {
			break
		}
	}

	return ids
}

// signedVolume computes Σ dot(face.Centroid, face.Normal) * face.Area / 3
// over a mesh's faces, the divergence theorem sum for enclosed volume.
func signedVolume(mesh *Mesh, faces []Face) float64 {
	var volume float64

	for _, faceID := range mesh.FaceIDs {
		face := faces[faceID]
		volume += face.Centroid.Dot(face.Normal) * face.Area / 3
	}

	return volume
}

// Neighbors returns the distinct other faces sharing a closed half-edge
// with the given face.
func (m *Mesh) Neighbors(faceID int, faces []Face, halfEdges []HalfEdge) []int {
	neighbors := make([]int, 0, faces[faceID].NEdges)
	seen := map[int]bool{faceID: true}

	for _, heID := range faceHalfEdgeIDs(faces[faceID], halfEdges) {
		he := halfEdges[heID]
		if he.IsBoundary() {
			continue
		}

		neighbor := halfEdges[he.Twin].Face
		if !seen[neighbor] {
			seen[neighbor] = true
			neighbors = append(neighbors, neighbor)
		}
	}

	return neighbors
}

// IsConsistent reports whether every pair of twinned half-edges in the
// mesh traverses the shared edge in opposite directions (i.e. the mesh's
// faces share a consistent winding).
func (m *Mesh) IsConsistent(halfEdges []HalfEdge) bool {
	for _, heID := range m.ClosedEdges {
		he := halfEdges[heID]
		twin := halfEdges[he.Twin]

		if twin.Origin == he.Origin {
			return false
		}
	}

	return true
}

// Orient flips faces within this mesh until every twinned pair is
// consistently wound, walking the mesh depth-first across twinned
// half-edges from its first face.
func (m *Mesh) Orient(faces []Face, halfEdges []HalfEdge) {
	if m.IsConsistent(halfEdges) {
		return
	}

	visited := make(map[int]bool, len(m.FaceIDs))
	stack := []int{m.FaceIDs[0]}
	visited[m.FaceIDs[0]] = true

	for len(stack) > 0 {
		n := len(stack)
		current := stack[n-1]
		stack = stack[:n-1]

		for _, heID := range faceHalfEdgeIDs(faces[current], halfEdges) {
			he := halfEdges[heID]
			if he.IsBoundary() {
				continue
			}

			twin := halfEdges[he.Twin]
			neighbor := twin.Face

			if visited[neighbor] {
				continue
			}

			if he.Origin == twin.Origin {
				flipFace(faces[neighbor], halfEdges)
			}

			visited[neighbor] = true
			stack = append(stack, neighbor)
		}
	}
}

// flipFace reverses a face's half-edge traversal direction in place.
func flipFace(face Face, halfEdges []HalfEdge) {
	ids := faceHalfEdgeIDs(face, halfEdges)

	// Read every destination before any origin is overwritten.
	dests := make([]int, len(ids))
	for i, id := range ids {
		dests[i] = halfEdges[halfEdges[id].Next].Origin
	}

	for i, id := range ids {
		he := halfEdges[id]

		halfEdges[id] = HalfEdge{
			Origin: dests[i],
			Face:   he.Face,
			Next:   he.Prev,
			Prev:   he.Next,
			Twin:   he.Twin,
			Tags:   he.Tags,
		}
	}
}
