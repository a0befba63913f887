package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// YAMLFile persists the collections as a single human-readable YAML file.
// It is the default backend: the file can be inspected, diffed, and hand
// edited between sessions.
type YAMLFile struct {
	path string
}

// NewYAMLFile returns a YAML-backed repository at path.
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// Path returns the backing file path.
func (y *YAMLFile) Path() string {
	return y.path
}

// Load reads the collections. A missing file is a fresh install and loads
// as empty collections, not an error.
func (y *YAMLFile) Load() (*Collections, error) {
	data, err := os.ReadFile(y.path)
	if os.IsNotExist(err) {
		return &Collections{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collections file: %w", err)
	}

	var cols Collections
	if err := yaml.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("parse collections file: %w", err)
	}
	return &cols, nil
}

// Save writes the collections atomically: marshal to a temp file in the same
// directory, then rename over the target. A crash mid-save never corrupts
// the previous state.
func (y *YAMLFile) Save(cols *Collections) error {
	dir := filepath.Dir(y.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := yaml.Marshal(cols)
	if err != nil {
		return fmt.Errorf("marshal collections: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".collections-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, y.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace collections file: %w", err)
	}
	return nil
}
