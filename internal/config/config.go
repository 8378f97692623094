package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"projectPath"`
	TestPath    string `yaml:"testPath"`

	// Output settings
	OutputJSONFile string `yaml:"outputFile"`
	OutputJSONDir  string `yaml:"outputDir"`

	// Execution settings
	ThreadCount  int           `yaml:"threadCount"`
	StageTimeout time.Duration `yaml:"stageTimeout"`

	// Policy settings
	Filter     string `yaml:"filter"`
	Interleave bool   `yaml:"interleave"`
	Shuffle    bool   `yaml:"shuffle"`
	Seed       uint64 `yaml:"seed"`
	Retries    int    `yaml:"retries"`
	FailFast   bool   `yaml:"failFast"`
	OnlyFailed bool   `yaml:"onlyFailed"`

	// Paths to ignore when scanning
	PathsToIgnore []string `yaml:"pathsToIgnore"`

	Database Database `yaml:"database"`

	// Output switches
	Verbose    bool `yaml:"verbose"`
	NoProgress bool `yaml:"noProgress"`
}

// Database configures the per-worker MySQL databases handed to tests
type Database struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Prefix   string `yaml:"prefix"`
	// Migrate is a shell command run once per worker database before tests
	Migrate string `yaml:"migrate"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		ThreadCount:    DefaultThreadCount,
		Database: Database{
			Host:   "127.0.0.1",
			Port:   "3306",
			User:   "root",
			Prefix: DefaultDatabasePrefix,
		},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// LoadFile merges a YAML config file over c. A missing file is only an error
// when required is set.
func (c *Config) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads the project's .env file, if any, and applies SIMPLE_* and
// DB_* environment variables
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	if v := os.Getenv("SIMPLE_TEST_PATH"); v != "" {
		c.TestPath = v
	}
	if v := os.Getenv("SIMPLE_THREAD_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SIMPLE_THREAD_COUNT is not an integer: %q", v)
		}
		c.ThreadCount = n
	}
	if v := os.Getenv("SIMPLE_STAGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SIMPLE_STAGE_TIMEOUT: %w", err)
		}
		c.StageTimeout = d
	}

	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		c.Database.Port = v
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_DATABASE_PREFIX"); v != "" {
		c.Database.Prefix = v
	}
	if v := os.Getenv("SIMPLE_DB_MIGRATE"); v != "" {
		c.Database.Migrate = v
	}
	return nil
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TestPath) == "" {
		return errors.New("invalid config: [testPath] must be a non-empty path")
	}
	if c.ThreadCount < 1 {
		return fmt.Errorf("invalid config: [threadCount] must be a positive integer, got %d", c.ThreadCount)
	}
	if c.Retries < 0 {
		return fmt.Errorf("invalid config: [retries] must not be negative, got %d", c.Retries)
	}
	return nil
}

// GetTestPath returns the test path, relative to the project path unless absolute
func (c *Config) GetTestPath() string {
	if filepath.IsAbs(c.TestPath) {
		return c.TestPath
	}
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the absolute path of the results JSON file so every
// command reads and writes the same file regardless of cwd
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
