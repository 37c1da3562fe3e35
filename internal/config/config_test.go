package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.19, cfg.B)
	assert.Equal(t, 0.003, cfg.Dt)
	assert.Equal(t, 100000, cfg.Steps)
	assert.Equal(t, SeedConfig{X: 1, Y: 1, Z: 1}, cfg.Seed)
	assert.Equal(t, "xy", cfg.Projection.Plane)
	assert.Equal(t, RhodoneaConfig{K: 2, M: 5, Phi: 0, A: 1}, cfg.Rhodonea)
	assert.Equal(t, 200.0, cfg.Lyapunov.Duration)
	assert.Equal(t, 1e-8, cfg.Lyapunov.Perturbation)
	assert.Equal(t, 8000, cfg.SubsampleSize)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "b: 0.25\nprojection:\n  plane: yz\n  rotation_angle_rad: 0.7\nrhodonea:\n  k: 3\n  m: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.B)
	assert.Equal(t, "yz", cfg.Projection.Plane)
	assert.Equal(t, 0.7, cfg.Projection.AngleRad)
	assert.Equal(t, 3.0, cfg.Rhodonea.K)
	assert.Equal(t, 4.0, cfg.Rhodonea.M)

	// Everything the file leaves out stays at its default.
	assert.Equal(t, 0.003, cfg.Dt)
	assert.Equal(t, 100000, cfg.Steps)
	assert.Equal(t, "z", cfg.Projection.Axis)
	assert.Equal(t, 200.0, cfg.Lyapunov.Duration)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("b: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.B = 0.32
	cfg.Projection.Plane = "zx"
	cfg.Lyapunov.Duration = 50

	require.NoError(t, Save(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
