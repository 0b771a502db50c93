package halfedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidkit/meshcore"
)

func TestBuildFaceComputesPlaneAndProjection(t *testing.T) {
	vertexIDs := []int{0, 1, 2, 3}
	positions := []meshcore.Vector{
		meshcore.NewVector(0, 0, 0),
		meshcore.NewVector(1, 0, 0),
		meshcore.NewVector(1, 1, 0),
		meshcore.NewVector(0, 1, 0),
	}

	face, edges, err := buildFace(vertexIDs, positions, 0, 0, DefaultTolerances())
	require.NoError(t, err)

	assert.Equal(t, 4, face.NEdges)
	assert.Len(t, edges, 4)
	assert.InDelta(t, 0.0, face.Normal.X(), 1e-9)
	assert.InDelta(t, 0.0, face.Normal.Y(), 1e-9)
	assert.InDelta(t, 1.0, face.Area, 1e-9)
	assert.Equal(t, 2, face.Axis)
	assert.False(t, face.Flip)
}

func TestBuildFaceRejectsFewerThanThreeVertices(t *testing.T) {
	vertexIDs := []int{0, 1}
	positions := []meshcore.Vector{meshcore.NewVector(0, 0, 0), meshcore.NewVector(1, 0, 0)}

	_, _, err := buildFace(vertexIDs, positions, 0, 0, DefaultTolerances())
	assert.ErrorIs(t, err, meshcore.ErrMalformedInput)
}

func TestBuildFaceRejectsCollinearVertices(t *testing.T) {
	vertexIDs := []int{0, 1, 2}
	positions := []meshcore.Vector{
		meshcore.NewVector(0, 0, 0),
		meshcore.NewVector(1, 0, 0),
		meshcore.NewVector(2, 0, 0),
	}

	_, _, err := buildFace(vertexIDs, positions, 0, 0, DefaultTolerances())
	assert.ErrorIs(t, err, meshcore.ErrDegenerateFace)
}

func TestBuildFaceRejectsDuplicateDirectedEdge(t *testing.T) {
	// The loop revisits the directed edge (0,1) at index 0 and index 3.
	vertexIDs := []int{0, 1, 2, 0, 1}
	p0 := meshcore.NewVector(0, 0, 0)
	p1 := meshcore.NewVector(1, 0, 0)
	p2 := meshcore.NewVector(1, 1, 0)
	positions := []meshcore.Vector{p0, p1, p2, p0, p1}

	_, _, err := buildFace(vertexIDs, positions, 0, 0, DefaultTolerances())
	assert.ErrorIs(t, err, meshcore.ErrMalformedFace)
}

func TestFaceProjectUnprojectRoundTrips(t *testing.T) {
	vertexIDs := []int{0, 1, 2, 3}
	positions := []meshcore.Vector{
		meshcore.NewVector(0, 0, 2),
		meshcore.NewVector(1, 0, 2),
		meshcore.NewVector(1, 1, 2),
		meshcore.NewVector(0, 1, 2),
	}

	face, _, err := buildFace(vertexIDs, positions, 0, 0, DefaultTolerances())
	require.NoError(t, err)

	for _, p := range positions {
		a, b := face.Project(p)
		roundTrip := face.Unproject(a, b)

		assert.InDelta(t, p.X(), roundTrip.X(), 1e-9)
		assert.InDelta(t, p.Y(), roundTrip.Y(), 1e-9)
		assert.InDelta(t, p.Z(), roundTrip.Z(), 1e-9)
	}
}
