package halfedge

import (
	"github.com/solidkit/meshcore"
)

// Vertex is a position in three-dimensional space plus an opaque tag
// bitset used by outer algorithms. Identity is by index into the owning
// MeshSet's vertex store, never by coordinate.
type Vertex struct {
	Point meshcore.Vector
	Tags  meshcore.Tags
}
