package halfedge

import (
	"fmt"
	"sort"

	"github.com/solidkit/meshcore"
)

// MeshSet owns a contiguous vertex array plus the face/half-edge arenas of
// every mesh it contains. All half-edges of every owned mesh have an
// Origin indexing into this MeshSet's vertex array.
type MeshSet struct {
	vertices  []Vertex
	faces     []Face
	halfEdges []HalfEdge
	meshes    []*Mesh

	faceOrder   []int // flattened meshes[i].FaceIDs, in mesh-then-local order
	meshOffsets []int // prefix sums over meshes' face counts, len(meshes)+1
}

// NewMeshSet builds a MeshSet from a flat point list and a face-index
// encoding: for each face, one count n_k >= 3 followed by n_k indices
// into points. len(faceIndices) must equal nFaces + sum(n_k).
func NewMeshSet(points []meshcore.Vector, nFaces int, faceIndices []int, opts ...StitchOption) (*MeshSet, error) {
	o := defaultStitchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ms := &MeshSet{
		vertices: make([]Vertex, len(points)),
	}

	for i, p := range points {
		ms.vertices[i] = Vertex{Point: p}
	}

	cursor := 0

	for f := 0; f < nFaces; f++ {
		if cursor >= len(faceIndices) {
			return nil, fmt.Errorf("face %d: truncated encoding: %w", f, meshcore.ErrMalformedInput)
		}

		count := faceIndices[cursor]
		cursor++

		if count < 3 {
			return nil, fmt.Errorf("face %d: count %d < 3: %w", f, count, meshcore.ErrMalformedInput)
		}

		if cursor+count > len(faceIndices) {
			return nil, fmt.Errorf("face %d: truncated encoding: %w", f, meshcore.ErrMalformedInput)
		}

		vertexIDs := make([]int, count)
		positions := make([]meshcore.Vector, count)

		for i := 0; i < count; i++ {
			idx := faceIndices[cursor+i]

			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range: %w", f, idx, meshcore.ErrMalformedInput)
			}

			vertexIDs[i] = idx
			positions[i] = points[idx]
		}

		cursor += count

		face, edges, err := buildFace(vertexIDs, positions, f, len(ms.halfEdges), o.Tolerances)
		if err != nil {
			return nil, err
		}

		ms.faces = append(ms.faces, face)
		ms.halfEdges = append(ms.halfEdges, edges...)
	}

	if cursor != len(faceIndices) {
		return nil, fmt.Errorf("face index array length %d does not match encoding: %w", len(faceIndices), meshcore.ErrMalformedInput)
	}

	indexSet, setSize, err := Stitch(points, ms.faces, ms.halfEdges, opts...)
	if err != nil {
		return nil, err
	}

	ms.adopt(assembleMeshes(ms.faces, ms.halfEdges, indexSet, setSize))

	if o.PatchBoundaries {
		if err := ms.closeBoundaryPatches(opts...); err != nil {
			return nil, err
		}
	}

	return ms, nil
}

// closeBoundaryPatches synthesizes a patch face for every closed, planar
// boundary chain across every owned mesh, then re-stitches the whole face
// set once. Gated by WithPatchBoundaries.
func (ms *MeshSet) closeBoundaryPatches(opts ...StitchOption) error {
	o := defaultStitchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var created []int
	for _, mesh := range ms.meshes {
		created = append(created, SynthesizePatchFaces(mesh, ms.vertices, &ms.faces, &ms.halfEdges, o.Tolerances)...)
	}

	if len(created) == 0 {
		return nil
	}

	for i := range ms.faces {
		ms.faces[i].Mesh = noMesh
	}

	points := make([]meshcore.Vector, len(ms.vertices))
	for i, v := range ms.vertices {
		points[i] = v.Point
	}

	indexSet, setSize, err := Stitch(points, ms.faces, ms.halfEdges, opts...)
	if err != nil {
		return err
	}

	ms.adopt(assembleMeshes(ms.faces, ms.halfEdges, indexSet, setSize))

	return nil
}

// NewMeshSetFromMeshes consolidates a set of pre-existing meshes (each
// possibly owned by a different MeshSet, so referencing different vertex
// backing stores) into one fresh MeshSet. It walks every half-edge,
// collects the set of distinct referenced vertex objects (identity is
// (source MeshSet, index), never coordinate equality), copies them into a
// fresh vertex store, and rewrites every half-edge's origin.
func NewMeshSetFromMeshes(meshes []*Mesh) (*MeshSet, error) {
	ms := &MeshSet{}

	type vertexKey struct {
		src *MeshSet
		idx int
	}
	vertexIndex := make(map[vertexKey]int)

	newMeshes := make([]*Mesh, 0, len(meshes))

	for _, mesh := range meshes {
		src := mesh.meshSet
		if src == nil {
			return nil, fmt.Errorf("mesh has no owning MeshSet: %w", meshcore.ErrPreconditionViolated)
		}

		faceIDMap := make(map[int]int, len(mesh.FaceIDs))
		heIDMap := make(map[int]int)

		// Enumerate every half-edge belonging to this mesh (each belongs to
		// exactly one face, so no dedup needed) so Next/Prev/Twin can be
		// remapped consistently -- Twin always stays within the same mesh.
		orderedHE := make([]int, 0)
		for _, oldFaceID := range mesh.FaceIDs {
			faceIDMap[oldFaceID] = len(ms.faces) + len(faceIDMap)

			for _, oldHE := range faceHalfEdgeIDs(src.faces[oldFaceID], src.halfEdges) {
				heIDMap[oldHE] = len(ms.halfEdges) + len(orderedHE)
				orderedHE = append(orderedHE, oldHE)
			}
		}

		for _, oldHE := range orderedHE {
			old := src.halfEdges[oldHE]

			key := vertexKey{src, old.Origin}
			newOrigin, ok := vertexIndex[key]
			if !ok {
				newOrigin = len(ms.vertices)
				vertexIndex[key] = newOrigin
				ms.vertices = append(ms.vertices, src.vertices[old.Origin])
			}

			newHE := HalfEdge{
				Origin: newOrigin,
				Face:   faceIDMap[old.Face],
				Next:   heIDMap[old.Next],
				Prev:   heIDMap[old.Prev],
				Tags:   old.Tags,
			}

			if old.Twin < 0 {
				newHE.Twin = -1
			} else {
				newHE.Twin = heIDMap[old.Twin]
			}

			ms.halfEdges = append(ms.halfEdges, newHE)
		}

		newMesh := &Mesh{FaceIDs: make([]int, 0, len(mesh.FaceIDs))}

		for _, oldFaceID := range mesh.FaceIDs {
			old := src.faces[oldFaceID]
			newFace := old
			newFace.Edge = heIDMap[old.Edge]
			newFace.Mesh = len(newMeshes)
			ms.faces = append(ms.faces, newFace)
			newMesh.FaceIDs = append(newMesh.FaceIDs, faceIDMap[oldFaceID])
		}

		classifyMeshEdges(newMesh, ms.faces, ms.halfEdges)
		newMeshes = append(newMeshes, newMesh)
	}

	ms.adopt(newMeshes)

	return ms, nil
}

// adopt backlinks meshes to ms and builds the flattened face-order index
// used by FaceIter.
func (ms *MeshSet) adopt(meshes []*Mesh) {
	ms.meshes = meshes
	ms.meshOffsets = make([]int, len(meshes)+1)
	ms.faceOrder = ms.faceOrder[:0]

	for i, mesh := range meshes {
		mesh.meshSet = ms
		ms.meshOffsets[i+1] = ms.meshOffsets[i] + len(mesh.FaceIDs)
		ms.faceOrder = append(ms.faceOrder, mesh.FaceIDs...)
	}
}

// classifyMeshEdges fills OpenEdges/ClosedEdges/IsNegative for a mesh whose
// FaceIDs already index into faces/halfEdges.
func classifyMeshEdges(mesh *Mesh, faces []Face, halfEdges []HalfEdge) {
	for _, faceID := range mesh.FaceIDs {
		for _, heID := range faceHalfEdgeIDs(faces[faceID], halfEdges) {
			he := halfEdges[heID]

			if he.IsBoundary() {
				mesh.OpenEdges = append(mesh.OpenEdges, heID)
			} else if heID < he.Twin {
				mesh.ClosedEdges = append(mesh.ClosedEdges, heID)
			}
		}
	}

	mesh.IsNegative = mesh.IsClosed() && signedVolume(mesh, faces) < 0
}

// NumVertices returns the number of vertices in the shared store.
func (ms *MeshSet) NumVertices() int {
	return len(ms.vertices)
}

// Vertex returns a vertex by index.
func (ms *MeshSet) Vertex(index int) Vertex {
	return ms.vertices[index]
}

// HalfEdge returns a half-edge by arena index.
func (ms *MeshSet) HalfEdge(index int) HalfEdge {
	return ms.halfEdges[index]
}

// Face returns a face by arena index.
func (ms *MeshSet) Face(index int) Face {
	return ms.faces[index]
}

// SetFaceTags overwrites the tag bitset of one face, used by importers
// (e.g. the OBJ group-to-tag mapping in the exchange package) to attach
// external grouping metadata after construction.
func (ms *MeshSet) SetFaceTags(faceID int, tags meshcore.Tags) {
	ms.faces[faceID].Tags = tags
}

// FaceVertexIDs returns the vertex store indices of a face's loop, in
// traversal order.
func (ms *MeshSet) FaceVertexIDs(faceID int) []int {
	ids := faceHalfEdgeIDs(ms.faces[faceID], ms.halfEdges)
	vertexIDs := make([]int, len(ids))

	for i, heID := range ids {
		vertexIDs[i] = ms.halfEdges[heID].Origin
	}

	return vertexIDs
}

// Meshes returns the owned meshes.
func (ms *MeshSet) Meshes() []*Mesh {
	return ms.meshes
}

// NumFaces returns the total number of faces across all owned meshes.
func (ms *MeshSet) NumFaces() int {
	return len(ms.faceOrder)
}

// FaceAt dereferences the i'th face in the meshes[0].faces, meshes[1].faces,
// ... concatenation order. The flattened order is precomputed by adopt, so
// dereference is O(1).
func (ms *MeshSet) FaceAt(i int) (Face, int) {
	faceID := ms.faceOrder[i]
	return ms.faces[faceID], faceID
}

// MeshIndexAt resolves which owning mesh the i'th face (in FaceAt order)
// belongs to, by binary search over cumulative per-mesh face counts.
func (ms *MeshSet) MeshIndexAt(i int) int {
	return sort.Search(len(ms.meshOffsets)-1, func(m int) bool {
		return ms.meshOffsets[m+1] > i
	})
}

// FaceAABB computes the bounding box of one face's vertex loop.
func (ms *MeshSet) FaceAABB(faceID int) meshcore.AABB {
	vertexIDs := ms.FaceVertexIDs(faceID)
	positions := make([]meshcore.Vector, len(vertexIDs))

	for i, v := range vertexIDs {
		positions[i] = ms.vertices[v].Point
	}

	return meshcore.NewAABBFromVectors(positions)
}

// MeshAABB computes the bounding box of one owned mesh.
func (ms *MeshSet) MeshAABB(meshIdx int) meshcore.AABB {
	mesh := ms.meshes[meshIdx]
	box := ms.FaceAABB(mesh.FaceIDs[0])

	for _, faceID := range mesh.FaceIDs[1:] {
		box = box.Union(ms.FaceAABB(faceID))
	}

	return box
}

// AABB computes the union of every owned mesh's bounding box.
func (ms *MeshSet) AABB() meshcore.AABB {
	box := ms.MeshAABB(0)

	for i := 1; i < len(ms.meshes); i++ {
		box = box.Union(ms.MeshAABB(i))
	}

	return box
}

// Clone deep-copies the vertex store and every owned mesh. Because every
// cross-reference in this package is an arena index rather than a pointer,
// a clone is a flat copy of the three arenas plus fresh Mesh wrappers --
// no pointer remap is needed.
func (ms *MeshSet) Clone() *MeshSet {
	clone := &MeshSet{
		vertices:  append([]Vertex(nil), ms.vertices...),
		faces:     append([]Face(nil), ms.faces...),
		halfEdges: append([]HalfEdge(nil), ms.halfEdges...),
	}

	meshes := make([]*Mesh, len(ms.meshes))
	for i, mesh := range ms.meshes {
		meshes[i] = &Mesh{
			FaceIDs:     append([]int(nil), mesh.FaceIDs...),
			OpenEdges:   append([]int(nil), mesh.OpenEdges...),
			ClosedEdges: append([]int(nil), mesh.ClosedEdges...),
			IsNegative:  mesh.IsNegative,
		}
	}

	clone.adopt(meshes)

	return clone
}

// Merge appends another MeshSet's vertices, faces, half-edges, and meshes
// into ms, offsetting all arena indices.
func (ms *MeshSet) Merge(other *MeshSet) {
	vertexOffset := len(ms.vertices)
	faceOffset := len(ms.faces)
	heOffset := len(ms.halfEdges)

	ms.vertices = append(ms.vertices, other.vertices...)

	for _, face := range other.faces {
		face.Edge += heOffset
		face.Mesh += len(ms.meshes)
		ms.faces = append(ms.faces, face)
	}

	for _, he := range other.halfEdges {
		he.Origin += vertexOffset
		he.Face += faceOffset
		he.Next += heOffset
		he.Prev += heOffset

		if !he.IsBoundary() {
			he.Twin += heOffset
		}

		ms.halfEdges = append(ms.halfEdges, he)
	}

	merged := append([]*Mesh(nil), ms.meshes...)

	for _, mesh := range other.meshes {
		newMesh := &Mesh{
			IsNegative: mesh.IsNegative,
		}

		for _, id := range mesh.FaceIDs {
			newMesh.FaceIDs = append(newMesh.FaceIDs, id+faceOffset)
		}

		for _, id := range mesh.OpenEdges {
			newMesh.OpenEdges = append(newMesh.OpenEdges, id+heOffset)
		}

		for _, id := range mesh.ClosedEdges {
			newMesh.ClosedEdges = append(newMesh.ClosedEdges, id+heOffset)
		}

		merged = append(merged, newMesh)
	}

	ms.adopt(merged)
}

// CloneFaceWithLoop derives a new, not-yet-stitched face from an existing
// one: it copies the base face's axis-drop projection choice, builds a
// fresh half-edge ring over the supplied vertex loop (reversed when
// flipped is true), and recomputes the plane equation. Spec §6's
// clone_face_with_loop, used by outer collaborators (the Boolean engine)
// to derive split faces from an existing one.
func (ms *MeshSet) CloneFaceWithLoop(baseFaceID int, vertexIDs []int, flipped bool) (int, error) {
	base := ms.faces[baseFaceID]

	loop := vertexIDs
	if flipped {
		loop = make([]int, len(vertexIDs))
		for i, v := range vertexIDs {
			loop[len(vertexIDs)-1-i] = v
		}
	}

	positions := make([]meshcore.Vector, len(loop))
	for i, v := range loop {
		positions[i] = ms.vertices[v].Point
	}

	newFaceID := len(ms.faces)
	face, edges, err := buildFace(loop, positions, newFaceID, len(ms.halfEdges), DefaultTolerances())
	if err != nil {
		return -1, err
	}

	face.Axis = base.Axis
	face.Flip = base.Flip
	face.Tags = base.Tags

	ms.faces = append(ms.faces, face)
	ms.halfEdges = append(ms.halfEdges, edges...)

	return newFaceID, nil
}
