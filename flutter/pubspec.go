package flutter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	PubspecName = "pubspec.yaml"
)

// Pubspec is the subset of a Flutter project's pubspec.yaml
// that feeds an Android packaging descriptor.
type Pubspec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// ReadPubspec reads the pubspec.yaml in dir.
func ReadPubspec(dir string) (*Pubspec, error) {
	b, err := os.ReadFile(filepath.Join(dir, PubspecName))
	if err != nil {
		return nil, err
	}

	pubspec := &Pubspec{}
	if err := yaml.Unmarshal(b, pubspec); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", PubspecName, err)
	}

	return pubspec, nil
}

// IsProject reports whether dir holds a pubspec.yaml.
func IsProject(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, PubspecName))
	return err == nil
}

// ParseVersion splits a pubspec version of the form "1.2.3+4" into its
// version name and build number. A version without a build number has
// build number 1, which is what the Flutter tool assumes.
func ParseVersion(version string) (string, int, error) {
	name, build, ok := strings.Cut(strings.TrimSpace(version), "+")
	if name == "" {
		return "", 0, fmt.Errorf("empty version name in %q", version)
	} else if !ok {
		return name, 1, nil
	}

	code, err := strconv.Atoi(build)
	if err != nil {
		return "", 0, fmt.Errorf("parse build number in %q: %w", version, err)
	}

	return name, code, nil
}
