package halfedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshNeighborsReturnsSharedEdgeFaces(t *testing.T) {
	ms, err := NewMeshSet(cubePoints(), 6, cubeFaceIndices(0))
	require.NoError(t, err)

	mesh := ms.Meshes()[0]
	neighbors := mesh.Neighbors(mesh.FaceIDs[0], ms.faces, ms.halfEdges)

	// Every quad face of a cube borders exactly four others.
	assert.Len(t, neighbors, 4)
	assert.NotContains(t, neighbors, mesh.FaceIDs[0])
}

func TestMeshIsConsistentOnAProperlyStitchedCube(t *testing.T) {
	ms, err := NewMeshSet(cubePoints(), 6, cubeFaceIndices(0))
	require.NoError(t, err)

	mesh := ms.Meshes()[0]
	assert.True(t, mesh.IsConsistent(ms.halfEdges))
}

func TestMeshOrientRepairsAFlippedFace(t *testing.T) {
	ms, err := NewMeshSet(cubePoints(), 6, cubeFaceIndices(0))
	require.NoError(t, err)

	mesh := ms.Meshes()[0]
	require.True(t, mesh.IsConsistent(ms.halfEdges))

	flipFace(ms.faces[mesh.FaceIDs[0]], ms.halfEdges)
	assert.False(t, mesh.IsConsistent(ms.halfEdges))

	mesh.Orient(ms.faces, ms.halfEdges)
	assert.True(t, mesh.IsConsistent(ms.halfEdges))
}
