package server

import (
	"encoding/json"
	"fmt"
	"os"
)

// TracerSettings is the persisted viewer configuration. It survives
// restarts through a small JSON file next to the binary.
type TracerSettings struct {
	Scene          string `json:"scene"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	SamplesPerPass int    `json:"samples_per_pass"`
	MaxPasses      int    `json:"max_passes"`
	MaxDepth       int    `json:"max_depth"`
	Workers        int    `json:"workers"`
	Seed           int64  `json:"seed"`
}

// DefaultSettings returns the initial viewer configuration
func DefaultSettings() TracerSettings {
	return TracerSettings{
		Scene:          "default",
		Width:          640,
		Height:         480,
		SamplesPerPass: 1,
		MaxPasses:      0,
		MaxDepth:       10,
		Workers:        0,
		Seed:           1,
	}
}

// Validate rejects settings that cannot drive a render
func (s TracerSettings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", s.Width, s.Height)
	}
	if s.Width*s.Height > 8192*8192 {
		return fmt.Errorf("resolution %dx%d too large", s.Width, s.Height)
	}
	if s.SamplesPerPass <= 0 {
		return fmt.Errorf("samples per pass must be positive, got %d", s.SamplesPerPass)
	}
	if s.MaxPasses < 0 {
		return fmt.Errorf("max passes must be non-negative, got %d", s.MaxPasses)
	}
	if s.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", s.MaxDepth)
	}
	return nil
}

// LoadSettings reads settings from path. A missing file yields the
// defaults without error; a corrupt or invalid file is an error.
func LoadSettings(path string) (TracerSettings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return TracerSettings{}, fmt.Errorf("reading settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return TracerSettings{}, fmt.Errorf("parsing settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return TracerSettings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path as indented JSON
func (s TracerSettings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
