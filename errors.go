package meshcore

import "errors"

// Fatal error kinds surfaced by the mesh construction and stitching core.
// All four indicate programmer error or corrupt input; the core never
// attempts to continue past one. Non-fatal topological irregularities
// (open edges, partially-paired complex edges) are never errors -- they are
// reported as data on the constructed Mesh.
var (
	// ErrMalformedInput covers a malformed face-index encoding, an index
	// out of range, or a face with fewer than 3 vertices.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDegenerateFace indicates a plane fit produced a zero-magnitude
	// normal (collinear or coincident vertices).
	ErrDegenerateFace = errors.New("degenerate face")

	// ErrMalformedFace indicates a face's half-edge ring contains a
	// duplicated directed edge.
	ErrMalformedFace = errors.New("malformed face")

	// ErrPreconditionViolated indicates an attempt to stitch a face that
	// is already assigned to a mesh.
	ErrPreconditionViolated = errors.New("precondition violated")
)
