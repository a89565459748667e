// Package remesh orchestrates one remeshing pass: encode the mesh to a
// scratch OBJ, invoke the external tool, decode and finalize the result.
package remesh

import (
	"errors"
	"fmt"
	"strconv"
)

// Request validation errors.
var (
	ErrCountOutOfRange = errors.New("target count out of range")
	ErrAngleOutOfRange = errors.New("crease angle out of range")
	ErrBadTargetKind   = errors.New("unknown target kind")
)

// Target count bounds accepted by the external tool.
const (
	MinTargetCount = 10
	MaxTargetCount = 1_000_000
)

// TargetKind selects which budget the remesher aims for.
type TargetKind int

// Target kinds; face count and vertex count are mutually exclusive.
const (
	TargetFaces TargetKind = iota
	TargetVertices
)

// String returns the kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetFaces:
		return "faces"
	case TargetVertices:
		return "vertices"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Request holds the user-selected remeshing parameters. It is immutable
// once constructed and consumed by exactly one orchestration.
type Request struct {
	// Target selects the budget metric; Count is its value.
	Target TargetKind
	Count  int

	// PreserveSharp keeps sharp features and corners (-c).
	PreserveSharp bool
	// AlignToBoundaries aligns the field to mesh boundaries (-b).
	AlignToBoundaries bool
	// Deterministic makes the solver single-threaded and repeatable (-d).
	Deterministic bool
	// CreaseAngle is the dihedral crease threshold in degrees.
	// Zero disables the flag entirely.
	CreaseAngle float64
}

// Validate checks the request bounds.
func (r Request) Validate() error {
	if r.Target != TargetFaces && r.Target != TargetVertices {
		return fmt.Errorf("%w: %d", ErrBadTargetKind, int(r.Target))
	}
	if r.Count < MinTargetCount || r.Count > MaxTargetCount {
		return fmt.Errorf("%w: %d not in [%d, %d]",
			ErrCountOutOfRange, r.Count, MinTargetCount, MaxTargetCount)
	}
	if r.CreaseAngle < 0 || r.CreaseAngle > 180 {
		return fmt.Errorf("%w: %v not in [0, 180]", ErrAngleOutOfRange, r.CreaseAngle)
	}
	return nil
}

// Args builds the argument vector for the external tool:
// -i in -o out [-f N | -v N] [-c] [-b] [-d] [-a degrees].
func (r Request) Args(inputPath, outputPath string) []string {
	args := []string{"-i", inputPath, "-o", outputPath}

	if r.Target == TargetVertices {
		args = append(args, "-v", strconv.Itoa(r.Count))
	} else {
		args = append(args, "-f", strconv.Itoa(r.Count))
	}

	if r.PreserveSharp {
		args = append(args, "-c")
	}
	if r.AlignToBoundaries {
		args = append(args, "-b")
	}
	if r.Deterministic {
		args = append(args, "-d")
	}
	if r.CreaseAngle > 0 {
		args = append(args, "-a", strconv.FormatFloat(r.CreaseAngle, 'f', -1, 64))
	}

	return args
}
