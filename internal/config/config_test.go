package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stillpond.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "Only speed",
			json: `{"scene": {"speed": 0.9}}`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Scene.Speed != 0.9 {
					t.Errorf("speed = %v, want 0.9", cfg.Scene.Speed)
				}
				if cfg.Scene.Radii != Default().Scene.Radii {
					t.Errorf("radii changed: %v", cfg.Scene.Radii)
				}
				if cfg.Scene.SmoothK != Default().Scene.SmoothK {
					t.Errorf("smoothK changed: %v", cfg.Scene.SmoothK)
				}
			},
		},
		{
			name: "Only music dir",
			json: `{"musicDir": "/tmp/sounds"}`,
			check: func(t *testing.T, cfg Config) {
				if cfg.MusicDir != "/tmp/sounds" {
					t.Errorf("musicDir = %q", cfg.MusicDir)
				}
				if cfg.Scene != Default().Scene {
					t.Errorf("scene changed: %+v", cfg.Scene)
				}
			},
		},
		{
			name: "Radii and volume",
			json: `{"volume": -1, "scene": {"radii": [0.1, 0.1, 0.1]}}`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Volume != -1 {
					t.Errorf("volume = %v", cfg.Volume)
				}
				if cfg.Scene.Radii != [3]float64{0.1, 0.1, 0.1} {
					t.Errorf("radii = %v", cfg.Scene.Radii)
				}
				if cfg.Scene.Speed != Default().Scene.Speed {
					t.Errorf("speed changed: %v", cfg.Scene.Speed)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.json))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"scene": `))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg != Default() {
		t.Errorf("malformed config should fall back to defaults, got %+v", cfg)
	}
}

func TestDefaultSceneMatchesRenderer(t *testing.T) {
	d := Default()
	if d.Scene.Speed != 0.5 {
		t.Errorf("default speed = %v", d.Scene.Speed)
	}
	if d.Scene.Radii != [3]float64{0.2, 0.15, 0.22} {
		t.Errorf("default radii = %v", d.Scene.Radii)
	}
	if d.Scene.SmoothK != [2]float64{0.2, 0.25} {
		t.Errorf("default smoothK = %v", d.Scene.SmoothK)
	}
}
