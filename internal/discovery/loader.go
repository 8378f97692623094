package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"simple/internal/domain"
	"simple/internal/logging"
)

// ErrNotFound is returned when the test path does not exist
var ErrNotFound = errors.New("test path does not exist")

// Resolver turns a file into zero or more test-class definitions.
// (nil, nil) means the file holds no tests.
type Resolver interface {
	Resolve(root, path string) ([]domain.Definition, error)
}

// Loader walks a directory tree and collects test-class definitions
type Loader struct {
	skipDirs map[string]bool
	resolver Resolver
	log      *logging.Logger
}

// NewLoader creates a Loader that skips the given directory names
func NewLoader(skipDirs []string, resolver Resolver, log *logging.Logger) *Loader {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Loader{skipDirs: skipMap, resolver: resolver, log: log}
}

// Load returns every definition found under root in traversal order
func (l *Loader) Load(root string) ([]domain.Definition, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: [%s]", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat test path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	var defs []domain.Definition
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || l.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		resolved, err := l.resolver.Resolve(root, path)
		if err != nil {
			l.log.Warn("Skipping file that could not be resolved", "file", path, "error", err)
			return nil
		}
		for _, def := range resolved {
			if !def.IsClass() {
				l.log.Debug("Skipping definition that is not a test class", "file", path, "name", def.Name)
				continue
			}
			if def.Source == "" {
				def.Source = path
			}
			defs = append(defs, def)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk test path %s: %w", root, err)
	}

	l.log.Debug("Loaded test classes", "root", root, "count", len(defs))
	return defs, nil
}
