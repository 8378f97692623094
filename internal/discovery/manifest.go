package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"simple/internal/domain"
)

// Manifest suffixes recognised by ManifestResolver
var manifestSuffixes = []string{".suite.yaml", ".suite.yml"}

// Manifest is a declarative test class whose stages run shell commands
type Manifest struct {
	Name       string            `yaml:"name"`
	Shell      string            `yaml:"shell,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
	BeforeEach *Step             `yaml:"beforeEach,omitempty"`
	AfterEach  *Step             `yaml:"afterEach,omitempty"`
	Tests      []ManifestTest    `yaml:"tests"`
}

// ManifestTest is one named test of a manifest
type ManifestTest struct {
	Name string `yaml:"name"`
	Step `yaml:",inline"`
}

// Step is a command and what its result must look like
type Step struct {
	Run    string `yaml:"run"`
	Dir    string `yaml:"dir,omitempty"`
	Expect Expect `yaml:"expect,omitempty"`
}

// Expect holds the assertions applied to a command result
type Expect struct {
	ExitCode       *int     `yaml:"exitCode,omitempty"`
	StdoutContains []string `yaml:"stdoutContains,omitempty"`
	StdoutMatches  string   `yaml:"stdoutMatches,omitempty"`
}

// CommandOutput is the value a command stage produces
type CommandOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ManifestResolver resolves *.suite.yaml files
type ManifestResolver struct{}

// NewManifestResolver creates a new ManifestResolver
func NewManifestResolver() *ManifestResolver {
	return &ManifestResolver{}
}

// IsManifest reports whether path names a suite manifest
func IsManifest(path string) bool {
	for _, suffix := range manifestSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// Resolve implements Resolver
func (m *ManifestResolver) Resolve(_, path string) ([]domain.Definition, error) {
	if !IsManifest(path) {
		return nil, nil
	}
	manifest, err := ParseManifest(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	return []domain.Definition{{
		Name:   manifest.Name,
		Source: path,
		New: func(cp domain.ClassProperties) (domain.Suite, error) {
			return newCommandSuite(manifest, dir), nil
		},
	}}, nil
}

// ParseManifest reads and validates a manifest file. A missing name defaults
// to the file name without its suffix.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if manifest.Name == "" {
		base := filepath.Base(path)
		for _, suffix := range manifestSuffixes {
			base = strings.TrimSuffix(base, suffix)
		}
		manifest.Name = base
	}
	if manifest.Shell == "" {
		manifest.Shell = "sh"
	}
	if err := manifest.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &manifest, nil
}

func (m *Manifest) validate() error {
	steps := []*Step{m.BeforeEach, m.AfterEach}
	for i := range m.Tests {
		if m.Tests[i].Name == "" {
			return fmt.Errorf("test #%d has no name", i+1)
		}
		steps = append(steps, &m.Tests[i].Step)
	}
	for _, step := range steps {
		if step == nil || step.Expect.StdoutMatches == "" {
			continue
		}
		if _, err := regexp.Compile(step.Expect.StdoutMatches); err != nil {
			return fmt.Errorf("stdoutMatches: %w", err)
		}
	}
	return nil
}

type commandSuite struct {
	manifest *Manifest
	dir      string
}

func newCommandSuite(m *Manifest, dir string) domain.Suite {
	s := &commandSuite{manifest: m, dir: dir}

	cases := make([]domain.Case, 0, len(m.Tests))
	for _, t := range m.Tests {
		step := t.Step
		cases = append(cases, domain.Case{
			Name: t.Name,
			Method: func(props domain.Properties) any {
				if strings.TrimSpace(step.Run) == "" {
					return nil
				}
				return domain.Body(func(ctx context.Context, deps domain.Dependencies) (any, error) {
					return s.run(ctx, step, deps, props, nil)
				})
			},
		})
	}

	var before, after domain.HookFunc
	if m.BeforeEach != nil {
		step := *m.BeforeEach
		before = func(ctx context.Context, hc domain.HookContext) (any, error) {
			return s.run(ctx, step, hc.Provided, hc.Properties, nil)
		}
	}
	if m.AfterEach != nil {
		step := *m.AfterEach
		after = func(ctx context.Context, hc domain.HookContext) (any, error) {
			extra := []string{
				"SIMPLE_BEFORE_EACH=" + hc.BeforeEach.State.String(),
				"SIMPLE_TEST_OUTCOME=" + hc.Test.State.String(),
			}
			return s.run(ctx, step, hc.Provided, hc.Properties, extra)
		}
	}
	return domain.NewSuite(cases, before, after)
}

func (s *commandSuite) run(ctx context.Context, step Step, deps domain.Dependencies, props domain.Properties, extra []string) (any, error) {
	cmd := exec.CommandContext(ctx, s.manifest.Shell, "-c", step.Run)
	cmd.Dir = s.dir
	if step.Dir != "" {
		cmd.Dir = step.Dir
		if !filepath.IsAbs(step.Dir) {
			cmd.Dir = filepath.Join(s.dir, step.Dir)
		}
	}

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, s.manifestEnv()...)
	cmd.Env = append(cmd.Env, deps.Environ()...)
	cmd.Env = append(cmd.Env,
		"SIMPLE_TEST_CLASS="+props.ClassName,
		"SIMPLE_TEST_NAME="+props.TestName,
	)
	cmd.Env = append(cmd.Env, extra...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	out := CommandOutput{}
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run %q: %w", step.Run, ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %q: %w", step.Run, err)
		}
		out.ExitCode = exitErr.ExitCode()
	}
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()

	if err := step.Expect.Check(out); err != nil {
		return out, err
	}
	return out, nil
}

func (s *commandSuite) manifestEnv() []string {
	env := make([]string, 0, len(s.manifest.Env))
	for k, v := range s.manifest.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// Check returns an assertion error for the first expectation out violates.
// Without an explicit exitCode the command must exit with 0.
func (e Expect) Check(out CommandOutput) error {
	want := 0
	if e.ExitCode != nil {
		want = *e.ExitCode
	}
	if out.ExitCode != want {
		return domain.Assertf("expected exit code %d, got %d\n%s", want, out.ExitCode, tail(out.Stderr))
	}
	for _, s := range e.StdoutContains {
		if !strings.Contains(out.Stdout, s) {
			return domain.Assertf("expected stdout to contain %q\n%s", s, tail(out.Stdout))
		}
	}
	if e.StdoutMatches != "" {
		re, err := regexp.Compile(e.StdoutMatches)
		if err != nil {
			return fmt.Errorf("stdoutMatches: %w", err)
		}
		if !re.MatchString(out.Stdout) {
			return domain.Assertf("expected stdout to match %q\n%s", e.StdoutMatches, tail(out.Stdout))
		}
	}
	return nil
}

// tail keeps the last lines of command output for failure messages
func tail(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > 20 {
		lines = lines[len(lines)-20:]
	}
	return strings.Join(lines, "\n")
}
