// Package project persists everything a user would hate to re-enter: the
// scale calibration, page spec defaults, and the measurement overlays.
// Projects are plain YAML files saved next to the document.
package project

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"tilepress/pkg/measure"
	"tilepress/pkg/scale"
	"tilepress/pkg/tiling"
)

// Sentinel errors for project file operations.
var (
	ErrProjectNotFound = errors.New("project file not found")
	ErrProjectParse    = errors.New("failed to parse project file")
)

// Version is the current project file format version.
const Version = 1

// Project is the persisted state for one document.
type Project struct {
	Version int `yaml:"version"`

	// Document is the path of the drawing this project belongs to, relative
	// to the project file where possible.
	Document string `yaml:"document,omitempty"`

	// Scale is the stored calibration. Nil when the document has not been
	// calibrated yet.
	Scale *scale.Reference `yaml:"scale,omitempty"`

	Page tiling.PageSpec `yaml:"page"`

	Measurements []measure.Measurement `yaml:"measurements,omitempty"`
}

// New returns an empty project with default page settings.
func New() *Project {
	return &Project{
		Version: Version,
		Page:    tiling.DefaultPageSpec(),
	}
}

// Load reads a project file. Unknown fields are rejected so a typo in a
// hand-edited file fails loudly instead of being dropped.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, path)
		}
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	p := New()
	if err := yaml.UnmarshalWithOptions(data, p, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProjectParse, err)
	}
	if err := p.Page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProjectParse, err)
	}
	return p, nil
}

// Save writes the project to path, creating or replacing the file.
func (p *Project) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}
