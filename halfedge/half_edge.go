package halfedge

import "github.com/solidkit/meshcore"

// HalfEdge is a directed traversal of one polygon edge, belonging to
// exactly one face. Next/Prev/Twin/Face/Origin are indices into the
// owning MeshSet's arenas rather than pointers (see MeshSet), so that
// cyclic ring/twin references never need an owning-pointer story.
type HalfEdge struct {
	Origin int
	Face   int
	Next   int
	Prev   int
	Twin   int
	Tags   meshcore.Tags
}

// IsBoundary returns true if the half edge is on the boundary (no twin).
func (h HalfEdge) IsBoundary() bool {
	return h.Twin < 0
}
