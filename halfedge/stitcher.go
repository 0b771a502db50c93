package halfedge

import (
	"math"
	"sort"

	"github.com/solidkit/meshcore"
)

// StitchOptions bundles the tunables accepted by Stitch, configured
// through the functional-option idiom.
type StitchOptions struct {
	Tolerances      Tolerances
	PatchBoundaries bool
}

// StitchOption configures StitchOptions.
type StitchOption func(*StitchOptions)

// WithTolerances overrides the default tolerance bundle.
func WithTolerances(tol Tolerances) StitchOption {
	return func(o *StitchOptions) {
		o.Tolerances = tol
	}
}

// WithPatchBoundaries opts a MeshSet constructor into closing open
// boundaries after the initial stitch: any closed, planar boundary chain
// on an open mesh is synthesized into a patch face (SynthesizePatchFaces)
// and the whole face set is re-stitched once. Off by default -- this
// changes the resulting face count, so it is never applied silently.
func WithPatchBoundaries(enabled bool) StitchOption {
	return func(o *StitchOptions) {
		o.PatchBoundaries = enabled
	}
}

func defaultStitchOptions() StitchOptions {
	return StitchOptions{Tolerances: DefaultTolerances()}
}

// edgeEntry is one half-edge incident to a complex directed vertex pair,
// carrying the face-orientation flag needed for the angular sort.
type edgeEntry struct {
	halfEdge int
	isRev    bool
	faceID   int
	angle    float64
}

// Stitch pairs opposing half-edges across an independently-built
// collection of faces, assigning a dense DSU component id to every face
// and linking Twin on every half-edge that pairs (simply or via angular
// complex-edge resolution). It is the face stitcher that turns a flat
// set of disjoint faces into manifold meshes.
//
// vertices is the position table that Origin indices resolve against;
// faces/halfEdges are the arenas being stitched (mutated in place: Twin
// and Component are written, nothing else). Every face must have
// Mesh == noMesh on entry; stitching a face already owned by a mesh is a
// precondition violation.
//
// Stitch returns the per-face dense component assignment (indexed by face
// id) and the component sizes. It never fails except for the fatal
// preconditions above; topological irregularities (unpaired half-edges,
// partially-paired complex groups) are reported as open edges on the
// half-edges themselves, not as an error.
func Stitch(vertices []meshcore.Vector, faces []Face, halfEdges []HalfEdge, opts ...StitchOption) ([]int, []int, error) {
	o := defaultStitchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	for i := range faces {
		if faces[i].Mesh != noMesh {
			return nil, nil, meshcore.ErrPreconditionViolated
		}
	}

	for i := range halfEdges {
		halfEdges[i].Twin = -1
	}

	d := newDSU(len(faces))

	edges := make(map[[2]int][]int)
	for idx, he := range halfEdges {
		key := [2]int{he.Origin, halfEdges[he.Next].Origin}
		edges[key] = append(edges[key], idx)
	}

	canonical := make(map[[2]int]struct{})
	for key := range edges {
		p, q := key[0], key[1]
		if p > q {
			p, q = q, p
		}
		canonical[[2]int{p, q}] = struct{}{}
	}

	for pair := range canonical {
		a, b := pair[0], pair[1]
		fwd := edges[[2]int{a, b}]
		rev := edges[[2]int{b, a}]

		switch {
		case len(fwd) == 1 && len(rev) == 1:
			pairTwins(halfEdges, faces, d, fwd[0], rev[0])

		case len(fwd) == 0 || len(rev) == 0:
			// One-sided: every half-edge on the nonempty side is a
			// boundary edge. Twin already defaults to -1.

		default:
			resolveComplexEdge(vertices, faces, halfEdges, d, a, b, fwd, rev, o.Tolerances)
		}
	}

	indexSet, setSize := d.components()

	for i := range faces {
		faces[i].Component = indexSet[i]
	}

	return indexSet, setSize, nil
}

// pairTwins links two half-edges as mutual twins and unions their faces.
func pairTwins(halfEdges []HalfEdge, faces []Face, d *dsu, i, j int) {
	halfEdges[i].Twin = j
	halfEdges[j].Twin = i
	d.union(halfEdges[i].Face, halfEdges[j].Face)
}

// resolveComplexEdge pairs half-edges meeting along (a,b) by sorting them
// around the shared line ab by dihedral angle, then walking the cyclic
// sorted sequence pairing adjacent opposite-orientation entries (§4.2.3).
func resolveComplexEdge(vertices []meshcore.Vector, faces []Face, halfEdges []HalfEdge, d *dsu, a, b int, fwd, rev []int, tol Tolerances) {
	edgeDir := vertices[b].Sub(vertices[a])
	mag := edgeDir.Mag()
	if mag < tol.Degenerate {
		// Coincident endpoints: nothing meaningful to sort by; leave all
		// half-edges open rather than guessing a pairing.
		return
	}
	edgeDir = edgeDir.DivScalar(mag)

	baseDir := perpendicularTo(faces[halfEdges[fwd[0]].Face].Normal, edgeDir)

	entries := make([]edgeEntry, 0, len(fwd)+len(rev))

	for _, he := range fwd {
		faceDir := faces[halfEdges[he].Face].Normal
		entries = append(entries, edgeEntry{
			halfEdge: he,
			isRev:    false,
			faceID:   halfEdges[he].Face,
			angle:    angleAbout(edgeDir, baseDir, faceDir),
		})
	}

	for _, he := range rev {
		faceDir := faces[halfEdges[he].Face].Normal.Negate()
		entries = append(entries, edgeEntry{
			halfEdge: he,
			isRev:    true,
			faceID:   halfEdges[he].Face,
			angle:    angleAbout(edgeDir, baseDir, faceDir),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if math.Abs(entries[i].angle-entries[j].angle) > tol.Angular {
			return entries[i].angle < entries[j].angle
		}

		if entries[i].isRev != entries[j].isRev {
			// Reversed-orientation edges precede forward at tied angle.
			return entries[i].isRev
		}

		return entries[i].faceID < entries[j].faceID
	})

	n := len(entries)
	consumed := make([]bool, n)

	for i := 0; i < n; i++ {
		j := (i + 1) % n

		if consumed[i] || consumed[j] {
			continue
		}

		if entries[i].isRev != entries[j].isRev {
			pairTwins(halfEdges, faces, d, entries[i].halfEdge, entries[j].halfEdge)
			consumed[i] = true
			consumed[j] = true
		}
	}
}

// perpendicularTo projects v onto the plane perpendicular to axis and
// normalizes the result. If v is (near) parallel to axis, an arbitrary
// deterministic perpendicular vector is substituted.
func perpendicularTo(v, axis meshcore.Vector) meshcore.Vector {
	proj := v.Sub(axis.MulScalar(axis.Dot(v)))

	if proj.Mag() < 1e-9 {
		fallback := meshcore.NewVector(1, 0, 0)
		if math.Abs(axis.Dot(fallback)) > 0.9 {
			fallback = meshcore.NewVector(0, 1, 0)
		}
		proj = fallback.Sub(axis.MulScalar(axis.Dot(fallback)))
	}

	return proj.Unit()
}

// angleAbout returns the counter-clockwise angle of v about axis relative
// to base, in [0, 2*pi).
func angleAbout(axis, base, v meshcore.Vector) float64 {
	proj := perpendicularTo(v, axis)
	sinComponent := axis.Dot(base.Cross(proj))
	cosComponent := base.Dot(proj)
	angle := math.Atan2(sinComponent, cosComponent)

	if angle < 0 {
		angle += 2 * math.Pi
	}

	return angle
}
