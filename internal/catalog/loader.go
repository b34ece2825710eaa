package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Skill level assumed when a manifest omits one.
const domainDefaultSkill = domain.SkillIntermediate

// Loader reads module sets from YAML manifests.
type Loader struct {
	basePath string
}

// NewLoader creates a loader rooted at basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadSet loads a single module set manifest.
func (l *Loader) LoadSet(setID string) (*ModuleSet, error) {
	path := filepath.Join(l.basePath, setID+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module set: %w", err)
	}

	var set ModuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse module set: %w", err)
	}

	for i := range set.Modules {
		applyDefaults(&set.Modules[i])
		if err := validateModule(&set.Modules[i]); err != nil {
			return nil, fmt.Errorf("module set %s: %w", setID, err)
		}
	}

	return &set, nil
}

// LoadAllSets loads every *.yaml manifest under the base path.
func (l *Loader) LoadAllSets() ([]*ModuleSet, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	var sets []*ModuleSet
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		set, err := l.LoadSet(strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	return sets, nil
}

func applyDefaults(m *Module) {
	if m.ComplexityFactor == 0 {
		m.ComplexityFactor = 1.0
	}
	if m.SkillLevel == "" {
		m.SkillLevel = domainDefaultSkill
	}
	if m.MaxHints == 0 {
		m.MaxHints = 3
	}
}

func validateModule(m *Module) error {
	if m.ID == "" {
		return fmt.Errorf("module missing id")
	}
	if !m.SkillLevel.Valid() {
		return fmt.Errorf("module %s: unknown skill level %q", m.ID, m.SkillLevel)
	}
	if m.ComplexityFactor < 0 {
		return fmt.Errorf("module %s: negative complexity factor", m.ID)
	}
	return nil
}
