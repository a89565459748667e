package remesh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/blenderlab/instant-remesh/internal/logger"
	"github.com/blenderlab/instant-remesh/internal/runner"
	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/mesh"
	"github.com/blenderlab/instant-remesh/pkg/obj"
)

// State identifies where in the pipeline an orchestration is. The walk is
// strictly linear; any failure jumps straight to StateFailed.
type State int

// Pipeline states.
const (
	StateIdle State = iota
	StateValidating
	StateEncoding
	StateInvoking
	StateAwaitingOutput
	StateDecoding
	StateFinalizing
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateEncoding:
		return "Encoding"
	case StateInvoking:
		return "Invoking"
	case StateAwaitingOutput:
		return "AwaitingOutput"
	case StateDecoding:
		return "Decoding"
	case StateFinalizing:
		return "Finalizing"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Error is the tagged failure result of an orchestration: the state it
// failed in, the most specific category available and human-readable
// detail. No partial results accompany it.
type Error struct {
	State    State
	Category runner.FailureCategory
	Detail   string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("remesh failed while %s: %s: %s", e.State, e.Category, e.Detail)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Source is the mesh handed over by the host, with its world transform
// and display name. The orchestrator only reads it.
type Source struct {
	Name      string
	Mesh      *mesh.Mesh
	Transform math.Mat4
}

// Result is a completed remesh. Mesh is decoded geometry in encode-space
// (the world transform is already baked into its coordinates); Transform
// is the original placement matrix the host should assign to the result's
// placement metadata, NOT multiply into the vertices again.
type Result struct {
	Name      string
	Mesh      *mesh.Mesh
	Transform math.Mat4
	Outcome   runner.Outcome
}

// Orchestrator runs remeshing passes against one configured executable.
// It is synchronous: one call runs to completion or failure before
// returning, and holds no mutable state between calls.
type Orchestrator struct {
	// ExecutablePath locates the Instant Meshes binary.
	ExecutablePath string
	// RunTimeout bounds the external invocation.
	RunTimeout time.Duration
	// ScratchRoot is where per-run scratch directories are created.
	// Empty means the system temp directory.
	ScratchRoot string
}

// Remesh runs the full pipeline on src with the given request. Scratch
// files are confined to a per-run directory that is removed on every exit
// path. On failure the returned error is always a *Error.
func (o *Orchestrator) Remesh(ctx context.Context, src Source, req Request) (*Result, error) {
	// Validating
	if err := runner.Preflight(o.ExecutablePath); err != nil {
		return nil, &Error{
			State:    StateValidating,
			Category: preflightCategory(err),
			Detail:   err.Error(),
			Err:      err,
		}
	}
	if err := req.Validate(); err != nil {
		return nil, &Error{State: StateValidating, Category: runner.FailureUnknown, Detail: err.Error(), Err: err}
	}
	if src.Mesh == nil {
		return nil, &Error{State: StateValidating, Category: runner.FailureUnknown, Detail: "no input mesh"}
	}
	if err := src.Mesh.Validate(); err != nil {
		return nil, &Error{State: StateValidating, Category: runner.FailureUnknown, Detail: err.Error(), Err: err}
	}

	scratch, err := os.MkdirTemp(o.ScratchRoot, "instant-remesh-")
	if err != nil {
		return nil, &Error{State: StateValidating, Category: runner.FailureUnknown,
			Detail: fmt.Sprintf("creating scratch directory: %v", err), Err: err}
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn("failed to remove scratch directory",
				zap.String("dir", scratch), zap.Error(err))
		}
	}()

	inputPath := filepath.Join(scratch, "input.obj")
	outputPath := filepath.Join(scratch, "output.obj")

	// Encoding
	logger.Debug("encoding input mesh",
		zap.String("name", src.Name),
		zap.Int("vertices", src.Mesh.VertexCount()),
		zap.Int("faces", src.Mesh.FaceCount()))
	if err := obj.EncodeFile(inputPath, src.Mesh, src.Transform, true); err != nil {
		return nil, &Error{State: StateEncoding, Category: runner.FailureUnknown, Detail: err.Error(), Err: err}
	}

	// Invoking
	logger.Info("running remesher",
		zap.String("target", req.Target.String()),
		zap.Int("count", req.Count))
	outcome, err := runner.Run(ctx, runner.Spec{
		Path:           o.ExecutablePath,
		Args:           req.Args(inputPath, outputPath),
		Dir:            scratch,
		Timeout:        o.RunTimeout,
		ExpectedOutput: outputPath,
	})
	if err != nil {
		return nil, &Error{State: StateInvoking, Category: preflightCategory(err), Detail: err.Error(), Err: err}
	}
	if outcome.Failed() {
		state := StateInvoking
		if outcome.Category == runner.FailureOutputMissing {
			state = StateAwaitingOutput
		}
		return nil, &Error{State: state, Category: outcome.Category, Detail: outcome.Detail}
	}

	// Decoding
	decoded, err := obj.DecodeFile(outputPath)
	if err != nil {
		return nil, &Error{State: StateDecoding, Category: runner.FailureParse, Detail: err.Error(), Err: err}
	}
	if err := decoded.Validate(); err != nil {
		return nil, &Error{State: StateDecoding, Category: runner.FailureParse,
			Detail: fmt.Sprintf("remesher produced inconsistent geometry: %v", err), Err: err}
	}

	// Finalizing: the decoded mesh already carries the baked transform;
	// the original matrix is handed back as placement metadata only.
	result := &Result{
		Name:      remeshedName(src.Name),
		Mesh:      decoded,
		Transform: src.Transform,
		Outcome:   outcome,
	}

	logger.Info("remeshing completed",
		zap.String("name", result.Name),
		zap.Int("vertices", decoded.VertexCount()),
		zap.Int("faces", decoded.FaceCount()),
		zap.Duration("duration", outcome.Duration))

	return result, nil
}

// remeshedName derives the result name from the source name.
func remeshedName(name string) string {
	if name == "" {
		name = "mesh"
	}
	return name + "_remeshed"
}

// preflightCategory maps runner preflight errors onto the taxonomy.
func preflightCategory(err error) runner.FailureCategory {
	switch {
	case errors.Is(err, runner.ErrExecutableNotFound):
		return runner.FailureExecutableNotFound
	case errors.Is(err, runner.ErrPermissionDenied):
		return runner.FailurePermissionDenied
	default:
		return runner.FailureUnknown
	}
}
