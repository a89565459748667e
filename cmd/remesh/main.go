// remesh is a CLI front end for resampling an OBJ mesh with the external
// Instant Meshes executable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/blenderlab/instant-remesh/internal/config"
	"github.com/blenderlab/instant-remesh/internal/logger"
	"github.com/blenderlab/instant-remesh/internal/remesh"
	"github.com/blenderlab/instant-remesh/internal/runner"
	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/obj"
)

var (
	flagIn     = flag.String("in", "", "Input OBJ file")
	flagOut    = flag.String("out", "", "Output OBJ file")
	flagCheck  = flag.Bool("check", false, "Probe the configured executable and exit")
	flagFaces  = flag.Int("faces", 0, "Target face count")
	flagVerts  = flag.Int("verts", 0, "Target vertex count")
	flagSharp  = flag.Bool("sharp", true, "Preserve sharp features (-c)")
	flagBounds = flag.Bool("boundaries", true, "Align to mesh boundaries (-b)")
	flagDet    = flag.Bool("deterministic", false, "Deterministic mode (-d)")
	flagCrease = flag.Float64("crease", -1, "Crease angle in degrees, 0 disables")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagCheck {
		os.Exit(runCheck(cfg))
	}
	os.Exit(runRemesh(cfg))
}

// runCheck probes the configured executable with --help.
func runCheck(cfg *config.Config) int {
	path := cfg.Remesher.ExecutablePath

	outcome, err := runner.CheckExecutable(context.Background(), path, cfg.Remesher.ProbeTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Executable check failed: %v\n", err)
		return 1
	}
	if outcome.Failed() {
		fmt.Fprintf(os.Stderr, "Executable check failed: %s: %s\n", outcome.Category, outcome.Detail)
		return 1
	}

	fmt.Printf("%s is working correctly\n", path)
	return 0
}

func runRemesh(cfg *config.Config) int {
	if *flagIn == "" || *flagOut == "" {
		fmt.Fprintln(os.Stderr, "Usage: remesh -in <input.obj> -out <output.obj> [options]")
		fmt.Fprintln(os.Stderr, "       remesh -check")
		flag.PrintDefaults()
		return 1
	}

	m, err := obj.DecodeFile(*flagIn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *flagIn, err)
		return 1
	}
	if m.VertexCount() == 0 || m.FaceCount() == 0 {
		fmt.Fprintf(os.Stderr, "Error: %s contains no usable geometry\n", *flagIn)
		return 1
	}

	name := strings.TrimSuffix(filepath.Base(*flagIn), filepath.Ext(*flagIn))
	src := remesh.Source{
		Name:      name,
		Mesh:      m,
		Transform: math.Identity(),
	}

	o := &remesh.Orchestrator{
		ExecutablePath: cfg.Remesher.ExecutablePath,
		RunTimeout:     cfg.Remesher.RunTimeout,
	}

	result, err := o.Remesh(context.Background(), src, buildRequest(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := obj.EncodeFile(*flagOut, result.Mesh, result.Transform, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *flagOut, err)
		return 1
	}

	logger.Info("wrote remeshed OBJ",
		zap.String("path", *flagOut),
		zap.Int("vertices", result.Mesh.VertexCount()),
		zap.Int("faces", result.Mesh.FaceCount()))
	return 0
}

// buildRequest combines config defaults with explicitly set flags.
func buildRequest(cfg *config.Config) remesh.Request {
	req := remesh.Request{
		Target:            remesh.TargetFaces,
		Count:             cfg.Defaults.FaceCount,
		PreserveSharp:     cfg.Defaults.PreserveSharp,
		AlignToBoundaries: cfg.Defaults.AlignToBoundaries,
		Deterministic:     cfg.Defaults.Deterministic,
		CreaseAngle:       cfg.Defaults.CreaseAngle,
	}
	if cfg.Defaults.TargetKind == "vertices" {
		req.Target = remesh.TargetVertices
		req.Count = cfg.Defaults.VertexCount
	}

	// Flags override config only when actually given on the command line.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "faces":
			req.Target = remesh.TargetFaces
			req.Count = *flagFaces
		case "verts":
			req.Target = remesh.TargetVertices
			req.Count = *flagVerts
		case "sharp":
			req.PreserveSharp = *flagSharp
		case "boundaries":
			req.AlignToBoundaries = *flagBounds
		case "deterministic":
			req.Deterministic = *flagDet
		case "crease":
			req.CreaseAngle = *flagCrease
		}
	})

	return req
}
