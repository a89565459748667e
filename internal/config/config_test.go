package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Remesher.ExecutablePath != "" {
		t.Errorf("expected empty executable path, got %s", cfg.Remesher.ExecutablePath)
	}
	if cfg.Remesher.ProbeTimeout != 5*time.Second {
		t.Errorf("expected probe timeout 5s, got %v", cfg.Remesher.ProbeTimeout)
	}
	if cfg.Remesher.RunTimeout != 120*time.Second {
		t.Errorf("expected run timeout 120s, got %v", cfg.Remesher.RunTimeout)
	}

	if cfg.Defaults.TargetKind != "faces" {
		t.Errorf("expected target kind 'faces', got %s", cfg.Defaults.TargetKind)
	}
	if cfg.Defaults.FaceCount != 5000 {
		t.Errorf("expected face count 5000, got %d", cfg.Defaults.FaceCount)
	}
	if cfg.Defaults.VertexCount != 5000 {
		t.Errorf("expected vertex count 5000, got %d", cfg.Defaults.VertexCount)
	}
	if !cfg.Defaults.PreserveSharp {
		t.Error("expected preserve_sharp to be true by default")
	}
	if !cfg.Defaults.AlignToBoundaries {
		t.Error("expected align_to_boundaries to be true by default")
	}
	if cfg.Defaults.Deterministic {
		t.Error("expected deterministic to be false by default")
	}
	if cfg.Defaults.CreaseAngle != 30.0 {
		t.Errorf("expected crease angle 30, got %f", cfg.Defaults.CreaseAngle)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "remesh.yaml")

	yamlContent := `remesher:
  executable_path: /opt/instant-meshes/InstantMeshes
  run_timeout: 90s
defaults:
  target_kind: vertices
  vertex_count: 2500
  deterministic: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Remesher.ExecutablePath != "/opt/instant-meshes/InstantMeshes" {
		t.Errorf("executable path not loaded, got %s", cfg.Remesher.ExecutablePath)
	}
	if cfg.Remesher.RunTimeout != 90*time.Second {
		t.Errorf("expected run timeout 90s, got %v", cfg.Remesher.RunTimeout)
	}
	if cfg.Defaults.TargetKind != "vertices" {
		t.Errorf("expected target kind 'vertices', got %s", cfg.Defaults.TargetKind)
	}
	if cfg.Defaults.VertexCount != 2500 {
		t.Errorf("expected vertex count 2500, got %d", cfg.Defaults.VertexCount)
	}
	if !cfg.Defaults.Deterministic {
		t.Error("expected deterministic to be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if cfg.Defaults.FaceCount != 5000 {
		t.Errorf("expected default face count 5000, got %d", cfg.Defaults.FaceCount)
	}
	if cfg.Remesher.ProbeTimeout != 5*time.Second {
		t.Errorf("expected default probe timeout 5s, got %v", cfg.Remesher.ProbeTimeout)
	}
}

func TestSaveToAndReload(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "remesh.yaml")

	cfg := Default()
	cfg.Remesher.ExecutablePath = "/usr/local/bin/instant-meshes"
	cfg.Defaults.FaceCount = 12000

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if loaded.Remesher.ExecutablePath != cfg.Remesher.ExecutablePath {
		t.Errorf("executable path mismatch: got %s", loaded.Remesher.ExecutablePath)
	}
	if loaded.Defaults.FaceCount != 12000 {
		t.Errorf("expected face count 12000, got %d", loaded.Defaults.FaceCount)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}
