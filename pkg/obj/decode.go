package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/mesh"
)

// ErrStream is returned when the OBJ source cannot be opened or read.
// Malformed individual records are skipped, never fatal.
var ErrStream = errors.New("cannot read OBJ stream")

// maxLineBytes bounds a single OBJ record. Real exporters stay far below
// this; anything longer is treated as a stream error.
const maxLineBytes = 1 << 20

// Decode parses OBJ text into a mesh. Only v and f records are read:
// decode is strictly geometry, normals are left for the host to
// regenerate. Face tokens may carry /texture/normal suffixes; only the
// leading vertex index is used, converted from 1-based to 0-based.
// Vertex lines with fewer than 3 numeric components are skipped.
func Decode(r io.Reader) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, ok := parseVertex(fields[1:])
			if !ok {
				continue
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			face, ok := parseFace(fields[1:])
			if !ok {
				continue
			}
			m.Faces = append(m.Faces, face)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	return m, nil
}

// DecodeFile decodes the OBJ file at path.
func DecodeFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	defer f.Close()
	return Decode(f)
}

// parseVertex parses the numeric components of a v record.
func parseVertex(args []string) (math.Vec3, bool) {
	if len(args) < 3 {
		return math.Vec3{}, false
	}

	var coords [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return math.Vec3{}, false
		}
		coords[i] = f
	}
	return math.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}, true
}

// parseFace parses the vertex indices of an f record. Each token is
// "v", "v/vt", "v//vn" or "v/vt/vn"; attribute indices are ignored.
func parseFace(args []string) ([]int, bool) {
	if len(args) < 3 {
		return nil, false
	}

	face := make([]int, 0, len(args))
	for _, tok := range args {
		if i := strings.IndexByte(tok, '/'); i >= 0 {
			tok = tok[:i]
		}
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 1 {
			return nil, false
		}
		face = append(face, idx-1)
	}
	return face, true
}
