// Package catalog provides the learning module catalog. Modules are
// the units the difficulty controller paces: each carries a complexity
// factor that scales predicted starting difficulty.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Duration is a time.Duration that reads "10m" style values from
// manifests.
type Duration time.Duration

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Module describes a single learning module.
type Module struct {
	ID               string            `yaml:"id" json:"id"`
	Title            string            `yaml:"title" json:"title"`
	Description      string            `yaml:"description" json:"description"`
	SkillLevel       domain.SkillLevel `yaml:"skill_level" json:"skill_level"`
	ComplexityFactor float64           `yaml:"complexity_factor" json:"complexity_factor"`
	Objectives       []string          `yaml:"objectives" json:"objectives,omitempty"`
	Prerequisites    []string          `yaml:"prerequisites" json:"prerequisites,omitempty"`
	MaxHints         int               `yaml:"max_hints" json:"max_hints"`
	ExpectedDuration Duration          `yaml:"expected_duration" json:"expected_duration"`
}

// ModuleSet is the YAML manifest grouping modules for one track.
type ModuleSet struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Modules     []Module `yaml:"modules"`
}
