// Package obj implements the Wavefront OBJ subset used to exchange
// geometry with the Instant Meshes executable: v, vn and f records,
// 1-based indices, i//i face tokens and 6-decimal coordinates.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/mesh"
)

// header is written as the first line of every encoded file.
const header = "# OBJ file created by instant-remesh"

// Encode writes the mesh as OBJ text. Vertex positions are transformed by
// the full 4x4 transform; normals by its linear 3x3 part only, then
// renormalized. When triangulate is set, polygon faces are fan-split
// before emission. The input mesh is never mutated, and identical inputs
// produce byte-identical output.
func Encode(w io.Writer, m *mesh.Mesh, transform math.Mat4, triangulate bool) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if triangulate {
		m = m.Triangulated()
	}

	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, header); err != nil {
		return err
	}

	for _, v := range m.Vertices {
		p := transform.TransformPoint(v)
		if _, err := fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}

	for _, n := range m.Normals {
		d := transform.TransformDirection(n).Normalize()
		if _, err := fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", d.X, d.Y, d.Z); err != nil {
			return err
		}
	}

	withNormals := m.HasNormals()
	for _, face := range m.Faces {
		if _, err := bw.WriteString("f"); err != nil {
			return err
		}
		for _, idx := range face {
			// OBJ indices are 1-based; the vertex index doubles as
			// its own normal index.
			var err error
			if withNormals {
				_, err = fmt.Fprintf(bw, " %d//%d", idx+1, idx+1)
			} else {
				_, err = fmt.Fprintf(bw, " %d", idx+1)
			}
			if err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeFile encodes the mesh to a file at path.
func EncodeFile(path string, m *mesh.Mesh, transform math.Mat4, triangulate bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Encode(f, m, transform, triangulate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
