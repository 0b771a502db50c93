package spatial

import (
	"github.com/solidkit/meshcore"
	"github.com/solidkit/meshcore/halfedge"
)

// faceRef is a thin meshcore.IntersectsAABB adapter over one face's
// precomputed bounding box, letting Octree index halfedge.Face values
// without the halfedge package needing to know about spatial indexing.
type faceRef struct {
	faceID int
	aabb   meshcore.AABB
}

func (f faceRef) IntersectsAABB(query meshcore.AABB) bool {
	return f.aabb.IntersectsAABB(query)
}

// NewFaceIndex builds an Octree over every face of a MeshSet, bounded by
// the MeshSet's own AABB (buffered slightly so boundary faces aren't
// rejected by floating point error at the root node). This is a broad-
// phase candidate filter exposed to outer collaborators such as a Boolean
// engine or triangulator needing spatial face queries ahead of exact
// geometric tests.
func NewFaceIndex(ms *halfedge.MeshSet) *Octree {
	root := ms.AABB().Buffer(0.01)
	tree := NewOctree(root)

	for i := 0; i < ms.NumFaces(); i++ {
		_, faceID := ms.FaceAt(i)
		aabb := ms.FaceAABB(faceID)
		tree.Insert(faceRef{faceID: faceID, aabb: aabb})
	}

	return tree
}

// FacesInAABB queries the index and returns the face ids (not the
// internal item indices) overlapping query.
func FacesInAABB(tree *Octree, query meshcore.AABB) []int {
	indices := tree.Query(query)
	faceIDs := make([]int, len(indices))

	for i, idx := range indices {
		faceIDs[i] = tree.Item(idx).(faceRef).faceID
	}

	return faceIDs
}
