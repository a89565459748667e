package obj

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/mesh"
)

// cubeMesh returns a unit cube with quad faces and per-vertex normals.
func cubeMesh() *mesh.Mesh {
	verts := []math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	normals := make([]math.Vec3, len(verts))
	for i, v := range verts {
		normals[i] = v.Sub(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}).Normalize()
	}
	return &mesh.Mesh{
		Vertices: verts,
		Normals:  normals,
		Faces: [][]int{
			{0, 3, 2, 1}, {4, 5, 6, 7},
			{0, 1, 5, 4}, {2, 3, 7, 6},
			{1, 2, 6, 5}, {3, 0, 4, 7},
		},
	}
}

func TestEncodeSingleVertexTranslation(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []math.Vec3{{X: 1, Y: 0, Z: 0}},
		Faces:    [][]int{},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m, math.Translate(2, 0, 0), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.Contains(buf.String(), "v 3.000000 0.000000 0.000000\n") {
		t.Errorf("expected translated vertex line, got:\n%s", buf.String())
	}
}

func TestEncodeNormalsIgnoreTranslation(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Normals:  []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
		Faces:    [][]int{{0, 1, 2}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m, math.Translate(5, 5, 5), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.Contains(buf.String(), "vn 0.000000 0.000000 1.000000\n") {
		t.Errorf("normal should be unaffected by translation, got:\n%s", buf.String())
	}
}

func TestEncodeNormalsRenormalizedUnderScale(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Normals:  []math.Vec3{{X: 1}, {X: 1}, {X: 1}},
		Faces:    [][]int{{0, 1, 2}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m, math.Scale(10, 10, 10), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.Contains(buf.String(), "vn 1.000000 0.000000 0.000000\n") {
		t.Errorf("scaled normal should renormalize to unit length, got:\n%s", buf.String())
	}
}

func TestEncodeFaceIndicesAreOneBased(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, cubeMesh(), math.Identity(), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	vertexCount := cubeMesh().VertexCount()
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, "f ") {
			continue
		}
		for _, tok := range strings.Fields(line)[1:] {
			parts := strings.Split(tok, "//")
			if len(parts) != 2 || parts[0] != parts[1] {
				t.Fatalf("face token %q is not i//i form", tok)
			}
			idx := 0
			for _, c := range parts[0] {
				idx = idx*10 + int(c-'0')
			}
			if idx < 1 || idx > vertexCount {
				t.Errorf("face index %d outside [1, %d]", idx, vertexCount)
			}
		}
	}
}

func TestEncodeTriangulatesQuads(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, cubeMesh(), math.Identity(), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	faceLines := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "f ") {
			faceLines++
			if got := len(strings.Fields(line)) - 1; got != 3 {
				t.Errorf("expected triangle, face has %d vertices: %s", got, line)
			}
		}
	}

	// 6 quads fan into 12 triangles.
	if faceLines != 12 {
		t.Errorf("expected 12 face lines, got %d", faceLines)
	}
}

func TestEncodeWithoutTriangulateKeepsPolygons(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, cubeMesh(), math.Identity(), false); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	faceLines := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "f ") {
			faceLines++
		}
	}
	if faceLines != 6 {
		t.Errorf("expected 6 quad faces, got %d", faceLines)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	transform := math.Translate(1, 2, 3).Mul(math.Scale(2, 2, 2))

	if err := Encode(&a, cubeMesh(), transform, true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := Encode(&b, cubeMesh(), transform, true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical input produced different bytes")
	}
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	m := cubeMesh()
	var buf bytes.Buffer
	if err := Encode(&buf, m, math.Scale(3, 3, 3), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if m.Vertices[1] != (math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Error("Encode mutated input vertices")
	}
	if len(m.Faces) != 6 || len(m.Faces[0]) != 4 {
		t.Error("Encode mutated input faces")
	}
}

func TestEncodeInvalidMesh(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []math.Vec3{{X: 0, Y: 0, Z: 0}},
		Faces:    [][]int{{0, 1, 2}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m, math.Identity(), true); err == nil {
		t.Error("expected validation error for out-of-range face index")
	}
}

func TestDecodeBasic(t *testing.T) {
	src := `# comment
v 0.000000 0.000000 0.000000
v 1.000000 0.000000 0.000000
v 0.000000 1.000000 0.000000
vn 0.000000 0.000000 1.000000
f 1//1 2//2 3//3
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if m.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.VertexCount())
	}
	if m.FaceCount() != 1 {
		t.Fatalf("expected 1 face, got %d", m.FaceCount())
	}
	if m.HasNormals() {
		t.Error("decode should not populate normals")
	}

	// Indices converted to 0-based.
	want := []int{0, 1, 2}
	for i, idx := range m.Faces[0] {
		if idx != want[i] {
			t.Errorf("face index %d: got %d, want %d", i, idx, want[i])
		}
	}
}

func TestDecodeFaceTokenVariants(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3
f 2/7 3/8 4/9
f 1//1 2//2 4//4
f 1/5/1 3/6/3 4/7/4
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if m.FaceCount() != 4 {
		t.Fatalf("expected 4 faces, got %d", m.FaceCount())
	}
	for fi, face := range m.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= m.VertexCount() {
				t.Errorf("face %d: index %d outside [0, %d)", fi, idx, m.VertexCount())
			}
		}
	}
}

func TestDecodeSkipsMalformedLines(t *testing.T) {
	src := `v 0 0 0
v 1 0
v not numbers here
v 1 0 0
v 0 1 0
f 1 2 3
f 1 bogus 3
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode should tolerate malformed lines: %v", err)
	}

	if m.VertexCount() != 3 {
		t.Errorf("expected 3 valid vertices, got %d", m.VertexCount())
	}
	if m.FaceCount() != 1 {
		t.Errorf("expected 1 valid face, got %d", m.FaceCount())
	}
}

func TestRoundTrip(t *testing.T) {
	original := cubeMesh().Triangulated()

	var buf bytes.Buffer
	if err := Encode(&buf, original, math.Identity(), true); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.VertexCount() != original.VertexCount() {
		t.Fatalf("vertex count: got %d, want %d", decoded.VertexCount(), original.VertexCount())
	}
	if decoded.FaceCount() != original.FaceCount() {
		t.Fatalf("face count: got %d, want %d", decoded.FaceCount(), original.FaceCount())
	}

	const tol = 1e-6
	for i, v := range decoded.Vertices {
		o := original.Vertices[i]
		if v.Distance(o) > tol {
			t.Errorf("vertex %d: got %v, want %v", i, v, o)
		}
	}

	for fi, face := range decoded.Faces {
		for j, idx := range face {
			if idx != original.Faces[fi][j] {
				t.Errorf("face %d: got %v, want %v", fi, face, original.Faces[fi])
				break
			}
		}
	}

	if err := decoded.Validate(); err != nil {
		t.Errorf("round-tripped mesh fails validation: %v", err)
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	path := t.TempDir() + "/cube.obj"

	if err := EncodeFile(path, cubeMesh(), math.Identity(), true); err != nil {
		t.Fatalf("EncodeFile failed: %v", err)
	}

	m, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if m.VertexCount() != 8 || m.FaceCount() != 12 {
		t.Errorf("got %d vertices / %d faces, want 8 / 12", m.VertexCount(), m.FaceCount())
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(t.TempDir() + "/absent.obj")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
