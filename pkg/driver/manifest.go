package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFilename is the manifest file resolved upward from the working
// directory when no program path is given.
const ManifestFilename = "rinha.yml"

// ErrManifestNotFound reports that no rinha.yml exists on the search path.
var ErrManifestNotFound = errors.New("rinha.yml not found")

// Manifest represents the parsed contents of rinha.yml.
type Manifest struct {
	Path    string
	Name    string
	Main    string
	Options RunOptions
}

// RunOptions carries interpreter settings a manifest may pin per project.
type RunOptions struct {
	MaxDepth    int  `yaml:"max-depth"`
	PrintResult bool `yaml:"print-result"`
}

type manifestDoc struct {
	Name    string     `yaml:"name"`
	Main    string     `yaml:"main"`
	Options RunOptions `yaml:"options"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest reads and validates a rinha.yml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	manifest := &Manifest{
		Path:    abs,
		Name:    strings.TrimSpace(doc.Name),
		Main:    strings.TrimSpace(doc.Main),
		Options: doc.Options,
	}

	var issues []string
	if manifest.Name == "" {
		issues = append(issues, "name must not be empty")
	}
	if manifest.Main == "" {
		issues = append(issues, "main must point at a program document")
	}
	if manifest.Options.MaxDepth < 0 {
		issues = append(issues, "options.max-depth must not be negative")
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return manifest, nil
}

// FindManifest walks upward from start looking for rinha.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFilename)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFilename, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// ResolveMain returns the absolute path of the manifest's entry document.
func (m *Manifest) ResolveMain() (string, error) {
	main := strings.TrimSpace(m.Main)
	if main == "" {
		return "", fmt.Errorf("manifest %s has no main entry", m.Path)
	}
	if filepath.IsAbs(main) {
		return filepath.Clean(main), nil
	}
	base := filepath.Dir(m.Path)
	if base == "" {
		return filepath.Clean(filepath.FromSlash(main)), nil
	}
	return filepath.Join(base, filepath.FromSlash(main)), nil
}
