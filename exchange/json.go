package exchange

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/solidkit/meshcore"
	"github.com/solidkit/meshcore/halfedge"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// indexedPolyhedron is the wire shape of the legacy JSON interop format:
// a flat point list plus one vertex-index loop per face.
type indexedPolyhedron struct {
	Points []point `json:"points"`
	Faces  [][]int `json:"faces"`
}

type point [3]float64

// ToIndexed converts a MeshSet into the legacy (points, faceIndices)
// encoding, preserving per-face component (manifold) ids as a parallel
// slice since the flat encoding has no room to carry them inline.
func ToIndexed(ms *halfedge.MeshSet) (points []meshcore.Vector, faces [][]int, componentIDs []int) {
	points = make([]meshcore.Vector, ms.NumVertices())
	for i := range points {
		points[i] = ms.Vertex(i).Point
	}

	faces = make([][]int, ms.NumFaces())
	componentIDs = make([]int, ms.NumFaces())

	for i := 0; i < ms.NumFaces(); i++ {
		face, faceID := ms.FaceAt(i)
		faces[i] = ms.FaceVertexIDs(faceID)
		componentIDs[i] = face.Component
	}

	return points, faces, componentIDs
}

// FromIndexed builds a fresh MeshSet from the legacy (points, faceIndices)
// encoding, re-stitching from scratch (component ids are a derived property
// of stitching, not an input to it -- the stitcher computes them, it never
// accepts them).
func FromIndexed(points []meshcore.Vector, faces [][]int, opts ...halfedge.StitchOption) (*halfedge.MeshSet, error) {
	var flat []int

	for _, face := range faces {
		flat = append(flat, len(face))
		flat = append(flat, face...)
	}

	return halfedge.NewMeshSet(points, len(faces), flat, opts...)
}

// WriteIndexedJSON writes a MeshSet to path as an indexed-polyhedron JSON
// document: {"points": [[x,y,z]...], "faces": [[v0,v1,v2]...]}. Component
// ids are not round-tripped through this format (see ToIndexed); JSON
// interop favors the plain encoding a non-Go caller would expect.
func WriteIndexedJSON(path string, ms *halfedge.MeshSet) error {
	points, faces, _ := ToIndexed(ms)

	doc := indexedPolyhedron{
		Points: make([]point, len(points)),
		Faces:  faces,
	}

	for i, p := range points {
		doc.Points[i] = point{p.X(), p.Y(), p.Z()}
	}

	data, err := jsonAPI.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal indexed polyhedron: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadIndexedJSON reads a JSON indexed-polyhedron document and stitches it
// into a MeshSet.
func ReadIndexedJSON(path string, opts ...halfedge.StitchOption) (*halfedge.MeshSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc indexedPolyhedron
	if err := jsonAPI.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal indexed polyhedron: %w", err)
	}

	points := make([]meshcore.Vector, len(doc.Points))
	for i, p := range doc.Points {
		points[i] = meshcore.NewVector(p[0], p[1], p[2])
	}

	return FromIndexed(points, doc.Faces, opts...)
}
