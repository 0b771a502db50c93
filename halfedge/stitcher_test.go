package halfedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidkit/meshcore"
)

func buildTriangle(vertexIDs []int, positions []meshcore.Vector, faceID, edgeBase int) (Face, []HalfEdge) {
	face, edges, err := buildFace(vertexIDs, positions, faceID, edgeBase, DefaultTolerances())
	if err != nil {
		panic(err)
	}
	return face, edges
}

func TestStitchPairsSimpleSharedEdge(t *testing.T) {
	vertices := []meshcore.Vector{
		meshcore.NewVector(0, 0, 0),
		meshcore.NewVector(1, 0, 0),
		meshcore.NewVector(0, 1, 0),
		meshcore.NewVector(1, 1, 0),
	}

	var faces []Face
	var halfEdges []HalfEdge

	f0, e0 := buildTriangle([]int{0, 1, 2}, []meshcore.Vector{vertices[0], vertices[1], vertices[2]}, 0, 0)
	faces = append(faces, f0)
	halfEdges = append(halfEdges, e0...)

	f1, e1 := buildTriangle([]int{1, 3, 2}, []meshcore.Vector{vertices[1], vertices[3], vertices[2]}, 1, len(halfEdges))
	faces = append(faces, f1)
	halfEdges = append(halfEdges, e1...)

	indexSet, setSize, err := Stitch(vertices, faces, halfEdges)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0}, indexSet)
	assert.Equal(t, []int{2}, setSize)

	pairCount := 0
	for _, he := range halfEdges {
		if !he.IsBoundary() {
			pairCount++
		}
	}
	assert.Equal(t, 2, pairCount)
}

func TestStitchLeavesUnmatchedEdgesOpen(t *testing.T) {
	vertices := []meshcore.Vector{
		meshcore.NewVector(0, 0, 0),
		meshcore.NewVector(1, 0, 0),
		meshcore.NewVector(0, 1, 0),
	}

	f0, e0 := buildTriangle([]int{0, 1, 2}, vertices, 0, 0)
	faces := []Face{f0}
	halfEdges := append([]HalfEdge(nil), e0...)

	_, setSize, err := Stitch(vertices, faces, halfEdges)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, setSize)

	for _, he := range halfEdges {
		assert.True(t, he.IsBoundary())
	}
}

func TestStitchRejectsFacesAlreadyOwnedByAMesh(t *testing.T) {
	vertices := []meshcore.Vector{
		meshcore.NewVector(0, 0, 0),
		meshcore.NewVector(1, 0, 0),
		meshcore.NewVector(0, 1, 0),
	}

	f0, e0 := buildTriangle([]int{0, 1, 2}, vertices, 0, 0)
	f0.Mesh = 0
	faces := []Face{f0}
	halfEdges := append([]HalfEdge(nil), e0...)

	_, _, err := Stitch(vertices, faces, halfEdges)
	assert.ErrorIs(t, err, meshcore.ErrPreconditionViolated)
}

// bookSpineFaces builds the classic non-manifold "book spine" fixture: three
// quad pages hinged on the shared edge (0,1), two wound so the edge appears
// as the directed pair (0,1) and one wound so it appears as (1,0). Only two
// of the three can pair; the third's spine half-edge must remain open.
func bookSpineFaces(t *testing.T) ([]meshcore.Vector, []Face, []HalfEdge) {
	t.Helper()

	vertices := []meshcore.Vector{
		meshcore.NewVector(0, 0, 0), // 0: vA
		meshcore.NewVector(0, 0, 1), // 1: vB
		meshcore.NewVector(1, 0, 0), // 2: page A far-bottom
		meshcore.NewVector(1, 0, 1), // 3: page A far-top
		meshcore.NewVector(0, 1, 0), // 4: page B far-bottom
		meshcore.NewVector(0, 1, 1), // 5: page B far-top
		meshcore.NewVector(-1, 1, 0), // 6: page C far-bottom
		meshcore.NewVector(-1, 1, 1), // 7: page C far-top
	}

	loops := [][]int{
		{0, 2, 3, 1}, // page A: contributes directed edge (1,0) -- "rev"
		{0, 1, 5, 4}, // page B: contributes directed edge (0,1) -- "fwd"
		{0, 1, 7, 6}, // page C: contributes directed edge (0,1) -- "fwd"
	}

	var faces []Face
	var halfEdges []HalfEdge

	for i, loop := range loops {
		positions := make([]meshcore.Vector, len(loop))
		for j, v := range loop {
			positions[j] = vertices[v]
		}

		face, edges, err := buildFace(loop, positions, i, len(halfEdges), DefaultTolerances())
		require.NoError(t, err)

		faces = append(faces, face)
		halfEdges = append(halfEdges, edges...)
	}

	return vertices, faces, halfEdges
}

func TestResolveComplexEdgePairsTwoOfThreeBookSpinePages(t *testing.T) {
	vertices, faces, halfEdges := bookSpineFaces(t)

	_, setSize, err := Stitch(vertices, faces, halfEdges)
	require.NoError(t, err)

	// Two pages pair up into one two-face mesh; the third is left alone.
	assert.ElementsMatch(t, []int{2, 1}, setSize)

	openSpineHalfEdges := 0
	for _, he := range halfEdges {
		if he.IsBoundary() && isSpineEdge(he, halfEdges, vertices) {
			openSpineHalfEdges++
		}
	}
	assert.Equal(t, 1, openSpineHalfEdges)
}

// isSpineEdge reports whether he's directed edge runs between the two spine
// vertices (0,1), in either direction.
func isSpineEdge(he HalfEdge, halfEdges []HalfEdge, vertices []meshcore.Vector) bool {
	dest := halfEdges[he.Next].Origin
	return (he.Origin == 0 && dest == 1) || (he.Origin == 1 && dest == 0)
}
