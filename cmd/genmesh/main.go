// genmesh generates sample OBJ meshes from SDF primitives, for exercising
// the remeshing pipeline without hand-authored geometry. The marching
// cubes output is deliberately dense and irregular, which is exactly what
// a remesher is for.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/mesh"
	"github.com/blenderlab/instant-remesh/pkg/obj"
)

var (
	flagShape = flag.String("shape", "sphere", "Shape to generate: box, sphere, cylinder, capsule")
	flagSize  = flag.Float64("size", 10, "Characteristic size of the shape")
	flagCells = flag.Int("cells", 100, "Marching cubes resolution")
	flagOut   = flag.String("out", "", "Output OBJ file")
)

func main() {
	flag.Parse()

	if *flagOut == "" {
		fmt.Fprintln(os.Stderr, "Usage: genmesh -shape <box|sphere|cylinder|capsule> -out <file.obj>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	solid, err := buildShape(*flagShape, *flagSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := tessellate(solid, *flagCells)

	if err := obj.EncodeFile(*flagOut, m, math.Identity(), true); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *flagOut, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s: %d vertices, %d triangles\n", *flagOut, m.VertexCount(), m.FaceCount())
}

// buildShape constructs the requested SDF solid.
func buildShape(shape string, size float64) (sdf.SDF3, error) {
	switch shape {
	case "box":
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	case "sphere":
		return sdf.Sphere3D(size / 2)
	case "cylinder":
		return sdf.Cylinder3D(size, size/4, 0)
	case "capsule":
		cyl, err := sdf.Cylinder3D(size, size/4, size/8)
		if err != nil {
			return nil, err
		}
		return cyl, nil
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
}

// tessellate runs marching cubes and flattens the triangle soup into a
// mesh with per-vertex face normals.
func tessellate(solid sdf.SDF3, cells int) *mesh.Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(solid, renderer)

	m := &mesh.Mesh{
		Vertices: make([]math.Vec3, 0, len(triangles)*3),
		Normals:  make([]math.Vec3, 0, len(triangles)*3),
		Faces:    make([][]int, 0, len(triangles)),
	}

	for _, tri := range triangles {
		n := tri.Normal()
		normal := math.Vec3{X: n.X, Y: n.Y, Z: n.Z}

		base := len(m.Vertices)
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, math.Vec3{X: v.X, Y: v.Y, Z: v.Z})
			m.Normals = append(m.Normals, normal)
		}
		m.Faces = append(m.Faces, []int{base, base + 1, base + 2})
	}

	return m
}
