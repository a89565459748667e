// Package mesh provides the in-memory triangulated surface representation
// used as the interchange boundary with a host application.
package mesh

import (
	"errors"
	"fmt"

	"github.com/blenderlab/instant-remesh/pkg/math"
)

// Mesh validation errors.
var (
	ErrIndexOutOfRange  = errors.New("face index out of range")
	ErrNormalCountWrong = errors.New("normal count does not match vertex count")
	ErrDegenerateFace   = errors.New("face has fewer than 3 vertices")
)

// Mesh is an ordered surface mesh: vertex positions, optional per-vertex
// unit normals, and faces as ordered vertex index lists. Faces may be
// polygons; Triangulated produces a triangle-only copy.
type Mesh struct {
	Vertices []math.Vec3
	Normals  []math.Vec3
	Faces    [][]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// TriangleCount returns the number of triangles a fan triangulation of
// all faces would produce.
func (m *Mesh) TriangleCount() int {
	count := 0
	for _, f := range m.Faces {
		if len(f) >= 3 {
			count += len(f) - 2
		}
	}
	return count
}

// HasNormals reports whether per-vertex normals are populated.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// Validate checks the mesh invariants: every face has at least 3 vertices,
// every face index is within [0, VertexCount), and when normals are present
// there is exactly one per vertex.
func (m *Mesh) Validate() error {
	if m.HasNormals() && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normals for %d vertices",
			ErrNormalCountWrong, len(m.Normals), len(m.Vertices))
	}

	for fi, face := range m.Faces {
		if len(face) < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrDegenerateFace, fi, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d",
					ErrIndexOutOfRange, fi, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// IsTriangulated reports whether every face is a triangle.
func (m *Mesh) IsTriangulated() bool {
	for _, f := range m.Faces {
		if len(f) != 3 {
			return false
		}
	}
	return true
}

// Triangulated returns a copy of the mesh with every polygon split into
// triangles by fanning from the face's first vertex. An n-gon becomes n-2
// triangles sharing vertex 0 of the face.
//
// Known limitation: fan triangulation assumes convex faces. Non-convex
// polygons may produce overlapping or inverted triangles.
func (m *Mesh) Triangulated() *Mesh {
	out := &Mesh{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Faces:    make([][]int, 0, m.TriangleCount()),
	}

	for _, face := range m.Faces {
		if len(face) == 3 {
			out.Faces = append(out.Faces, face)
			continue
		}
		for i := 1; i < len(face)-1; i++ {
			out.Faces = append(out.Faces, []int{face[0], face[i], face[i+1]})
		}
	}
	return out
}
