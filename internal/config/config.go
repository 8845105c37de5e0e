// Package config holds Stillpond's tunable settings: compiled-in UI
// constants and a user-facing JSON config with defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	WindowWidth  = 960
	WindowHeight = 540
)

// SceneConfig mirrors the scene parameter knobs. Fields are optional in the
// JSON file; an absent field keeps its default independently of the others.
type SceneConfig struct {
	Speed   float64    `json:"speed"`
	Radii   [3]float64 `json:"radii"`
	SmoothK [2]float64 `json:"smoothK"`
}

// Config is the full user configuration.
type Config struct {
	MusicDir string      `json:"musicDir"`
	Volume   float64     `json:"volume"` // log base-2, 0 = unity gain
	Scene    SceneConfig `json:"scene"`
}

// Default returns the stock configuration. MusicDir points at ./music
// relative to the working directory.
func Default() Config {
	return Config{
		MusicDir: "music",
		Volume:   0,
		Scene: SceneConfig{
			Speed:   0.5,
			Radii:   [3]float64{0.2, 0.15, 0.22},
			SmoothK: [2]float64{0.2, 0.25},
		},
	}
}

// Load reads the JSON config at path and overlays it on the defaults, so a
// partial file overrides only the fields it names. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
