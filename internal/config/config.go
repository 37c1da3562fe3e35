package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultB         = 0.19
	DefaultDt        = 0.003
	DefaultSteps     = 100000
	DefaultTransient = 0
	DefaultSeed      = 1.0
	DefaultLyapTime  = 200.0
	DefaultLyapDt    = 0.01
	DefaultLyapEps   = 1e-8
	DefaultSubsample = 8000
)

// Config describes one single-shot analysis run.
type Config struct {
	B              float64        `yaml:"b"`
	Dt             float64        `yaml:"dt"`
	Steps          int            `yaml:"steps"`
	TransientSteps int            `yaml:"transient_steps"`
	Seed           SeedConfig     `yaml:"seed"`
	Projection     ProjConfig     `yaml:"projection"`
	Rhodonea       RhodoneaConfig `yaml:"rhodonea"`
	Lyapunov       LyapConfig     `yaml:"lyapunov"`
	SubsampleSize  int            `yaml:"subsample_size"`
}

type SeedConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type ProjConfig struct {
	Plane    string  `yaml:"plane"`
	Axis     string  `yaml:"rotation_axis"`
	AngleRad float64 `yaml:"rotation_angle_rad"`
}

type RhodoneaConfig struct {
	K   float64 `yaml:"k"`
	M   float64 `yaml:"m"`
	Phi float64 `yaml:"phi"`
	A   float64 `yaml:"a"`
}

type LyapConfig struct {
	Duration     float64 `yaml:"duration"`
	Dt           float64 `yaml:"dt"`
	Perturbation float64 `yaml:"perturbation"`
}

func DefaultConfig() *Config {
	return &Config{
		B:              DefaultB,
		Dt:             DefaultDt,
		Steps:          DefaultSteps,
		TransientSteps: DefaultTransient,
		Seed:           SeedConfig{X: DefaultSeed, Y: DefaultSeed, Z: DefaultSeed},
		Projection:     ProjConfig{Plane: "xy", Axis: "z"},
		Rhodonea:       RhodoneaConfig{K: 2, M: 5, Phi: 0, A: 1},
		Lyapunov: LyapConfig{
			Duration:     DefaultLyapTime,
			Dt:           DefaultLyapDt,
			Perturbation: DefaultLyapEps,
		},
		SubsampleSize: DefaultSubsample,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
