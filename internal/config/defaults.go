package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path, relative to the project path
	DefaultTestPath = "test"
	// DefaultConfigFile is read when present and no --config is given
	DefaultConfigFile = "simple.yaml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultThreadCount is the default number of workers
	DefaultThreadCount = 1
	// DefaultDatabasePrefix names per-worker databases prefix_<worker>
	DefaultDatabasePrefix = "testing"
	// DefaultWatchDebounce groups file events before a rerun
	DefaultWatchDebounce = 300 * time.Millisecond
)

// DefaultPathsToIgnore are the directories never scanned for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"storage",
}
