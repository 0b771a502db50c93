package halfedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidkit/meshcore"
)

func TestBoundaryChainsTracesTheOpenBoxRim(t *testing.T) {
	points := cubePoints()

	// Five faces, missing the roof: the open rim is the top quad's edges.
	faceIndices := []int{
		4, 0, 3, 2, 1,
		4, 0, 1, 5, 4,
		4, 1, 2, 6, 5,
		4, 2, 3, 7, 6,
		4, 3, 0, 4, 7,
	}

	ms, err := NewMeshSet(points, 5, faceIndices)
	require.NoError(t, err)

	mesh := ms.Meshes()[0]
	chains := BoundaryChains(mesh, ms.faces, ms.halfEdges)

	require.Len(t, chains, 1)
	assert.True(t, chains[0].Closed)
	assert.Len(t, chains[0].Vertices, 4)
	assert.ElementsMatch(t, []int{4, 5, 6, 7}, chains[0].Vertices)
}

func TestSynthesizePatchFacesClosesTheRim(t *testing.T) {
	points := cubePoints()

	faceIndices := []int{
		4, 0, 3, 2, 1,
		4, 0, 1, 5, 4,
		4, 1, 2, 6, 5,
		4, 2, 3, 7, 6,
		4, 3, 0, 4, 7,
	}

	ms, err := NewMeshSet(points, 5, faceIndices)
	require.NoError(t, err)

	mesh := ms.Meshes()[0]
	require.False(t, mesh.IsClosed())

	created := SynthesizePatchFaces(mesh, ms.vertices, &ms.faces, &ms.halfEdges, DefaultTolerances())
	require.Len(t, created, 1)

	// Re-stitching from scratch requires every face, not just the newly
	// synthesized one, to present as unstitched.
	for i := range ms.faces {
		ms.faces[i].Mesh = noMesh
	}

	indexSet, setSize, err := Stitch(pointsOf(ms.vertices), ms.faces, ms.halfEdges)
	require.NoError(t, err)

	meshes := assembleMeshes(ms.faces, ms.halfEdges, indexSet, setSize)
	require.Len(t, meshes, 1)
	assert.True(t, meshes[0].IsClosed())
}

func pointsOf(vertices []Vertex) []meshcore.Vector {
	points := make([]meshcore.Vector, len(vertices))
	for i, v := range vertices {
		points[i] = v.Point
	}
	return points
}
