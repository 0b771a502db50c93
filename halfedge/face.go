package halfedge

import (
	"fmt"

	"github.com/solidkit/meshcore"
)

// noMesh / noComponent are sentinel values for Face.Mesh / Face.Component
// before a face has been stitched and bucketed into a Mesh.
const (
	noComponent = -1
	noMesh      = -1
)

// Face owns one half-edge of its ring (by arena index), its plane
// equation, the axis-drop projection/unprojection it was built with, and
// its component/mesh assignment (filled in by the stitcher and mesh
// assembler respectively).
type Face struct {
	Edge      int
	NEdges    int
	Normal    meshcore.Vector
	Offset    float64
	Area      float64
	Centroid  meshcore.Vector
	Axis      int
	Flip      bool
	Component int
	Mesh      int
	Tags      meshcore.Tags
}

// UnitNormal returns the face's unit normal (already unit by construction).
func (f Face) UnitNormal() meshcore.Vector {
	return f.Normal
}

// Project drops the face's dominant normal axis, returning 2D coordinates
// whose orientation is guaranteed positive-area for this face's loop.
func (f Face) Project(p meshcore.Vector) (float64, float64) {
	a, b := projectRaw(f.Axis, p)

	if f.Flip {
		return b, a
	}

	return a, b
}

// Unproject reconstructs the 3D point on the face's plane corresponding to
// 2D coordinates produced by Project. It is the exact inverse of Project
// for points that lie on the face's plane.
func (f Face) Unproject(a, b float64) meshcore.Vector {
	if f.Flip {
		a, b = b, a
	}

	var p meshcore.Vector

	switch f.Axis {
	case 0:
		p[1], p[2] = a, b
		p[0] = (f.Offset - f.Normal.Y()*p[1] - f.Normal.Z()*p[2]) / f.Normal.X()
	case 1:
		p[2], p[0] = a, b
		p[1] = (f.Offset - f.Normal.Z()*p[2] - f.Normal.X()*p[0]) / f.Normal.Y()
	default:
		p[0], p[1] = a, b
		p[2] = (f.Offset - f.Normal.X()*p[0] - f.Normal.Y()*p[1]) / f.Normal.Z()
	}

	return p
}

// projectRaw drops the given axis, keeping the other two components in a
// fixed cyclic order (x,y,z -> yz, zx, xy) so dropping any single axis
// produces a right-handed 2D frame consistent with the 3D normal sign.
func projectRaw(axis int, p meshcore.Vector) (float64, float64) {
	switch axis {
	case 0:
		return p.Y(), p.Z()
	case 1:
		return p.Z(), p.X()
	default:
		return p.X(), p.Y()
	}
}

// dominantAxis returns the index of the largest-magnitude normal component.
func dominantAxis(n meshcore.Vector) int {
	abs := n.Abs()
	axis := 0

	for i := 1; i < 3; i++ {
		if abs[i] > abs[axis] {
			axis = i
		}
	}

	return axis
}

// shoelaceSign returns the sign of the signed area of the polygon obtained
// by projecting positions with projectRaw(axis, .), without yet deciding
// a flip.
func shoelaceSign(axis int, positions []meshcore.Vector) float64 {
	var sum float64
	n := len(positions)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		ai, bi := projectRaw(axis, positions[i])
		aj, bj := projectRaw(axis, positions[j])
		sum += ai*bj - aj*bi
	}

	return sum
}

// newellPlane fits a plane through a vertex loop using Newell's method,
// tolerant of non-planarity. It returns the unit normal, the plane offset
// (dot(normal, p) == offset for p on the plane), the polygon area, and the
// centroid. A near-zero Newell vector (collinear or coincident vertices)
// is reported as meshcore.ErrDegenerateFace.
func newellPlane(positions []meshcore.Vector, tol Tolerances) (meshcore.Vector, float64, float64, meshcore.Vector, error) {
	var raw meshcore.Vector
	var centroid meshcore.Vector
	n := len(positions)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := positions[i], positions[j]

		raw[0] += (pi.Y() - pj.Y()) * (pi.Z() + pj.Z())
		raw[1] += (pi.Z() - pj.Z()) * (pi.X() + pj.X())
		raw[2] += (pi.X() - pj.X()) * (pi.Y() + pj.Y())

		centroid = centroid.Add(pi)
	}

	centroid = centroid.DivScalar(float64(n))
	mag := raw.Mag()

	if mag < tol.Degenerate {
		return meshcore.Vector{}, 0, 0, meshcore.Vector{}, meshcore.ErrDegenerateFace
	}

	normal := raw.DivScalar(mag)
	area := mag * 0.5
	offset := normal.Dot(positions[0])

	return normal, offset, area, centroid, nil
}

// buildFace constructs a face's half-edge ring (written into arena starting
// at edgeBase) in the given vertex order, then fits its plane and chooses
// its 2D projection. vertexIDs and positions are parallel slices: the
// vertex-store index and resolved 3D position of each loop vertex.
func buildFace(vertexIDs []int, positions []meshcore.Vector, faceID, edgeBase int, tol Tolerances) (Face, []HalfEdge, error) {
	n := len(vertexIDs)

	if n < 3 {
		return Face{}, nil, fmt.Errorf("face %d has %d vertices: %w", faceID, n, meshcore.ErrMalformedInput)
	}

	seen := make(map[[2]int]struct{}, n)
	edges := make([]HalfEdge, n)

	for i := 0; i < n; i++ {
		next := (i + 1) % n
		prev := (i - 1 + n) % n

		key := [2]int{vertexIDs[i], vertexIDs[next]}
		if _, ok := seen[key]; ok {
			return Face{}, nil, fmt.Errorf("face %d repeats directed edge (%d,%d): %w", faceID, key[0], key[1], meshcore.ErrMalformedFace)
		}
		seen[key] = struct{}{}

		edges[i] = HalfEdge{
			Origin: vertexIDs[i],
			Face:   faceID,
			Next:   edgeBase + next,
			Prev:   edgeBase + prev,
			Twin:   -1,
		}
	}

	normal, offset, area, centroid, err := newellPlane(positions, tol)
	if err != nil {
		return Face{}, nil, err
	}

	axis := dominantAxis(normal)
	flip := shoelaceSign(axis, positions) < 0

	face := Face{
		Edge:      edgeBase,
		NEdges:    n,
		Normal:    normal,
		Offset:    offset,
		Area:      area,
		Centroid:  centroid,
		Axis:      axis,
		Flip:      flip,
		Component: noComponent,
		Mesh:      noMesh,
	}

	return face, edges, nil
}
