// Package config loads zl.toml project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"zl/internal/compiler"
	"zl/internal/parser"
	"zl/internal/semantic"
)

// FileName is the name of the project file looked up by Find.
const FileName = "zl.toml"

type Config struct {
	Build BuildConfig `toml:"build"`
	Check CheckConfig `toml:"check"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type BuildConfig struct {
	Input     string `toml:"input"`
	Out       string `toml:"out"`
	SourceExt string `toml:"source_ext"`
	TargetExt string `toml:"target_ext"`
	Jobs      int    `toml:"jobs"` // 0 = GOMAXPROCS
}

type CheckConfig struct {
	InheritRules   bool `toml:"inherit_rules"`
	TagParameters  bool `toml:"tag_parameters"`
	MaxDepth       int  `toml:"max_depth"`
	MaxDiagnostics int  `toml:"max_diagnostics"` // 0 = unlimited
}

func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Input:     "src",
			Out:       "dist",
			SourceExt: ".zl",
			TargetExt: ".js",
		},
		Check: CheckConfig{
			MaxDepth: parser.DefaultMaxDepth,
		},
	}
}

// Find walks up from startDir looking for zl.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Relative input and output paths are
// resolved against the directory holding the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	root := filepath.Dir(path)
	if !filepath.IsAbs(cfg.Build.Input) {
		cfg.Build.Input = filepath.Join(root, filepath.FromSlash(cfg.Build.Input))
	}
	if !filepath.IsAbs(cfg.Build.Out) {
		cfg.Build.Out = filepath.Join(root, filepath.FromSlash(cfg.Build.Out))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest zl.toml above startDir, or the defaults when
// there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	b := c.Build
	if strings.TrimSpace(b.Input) == "" {
		return fmt.Errorf("[build].input must not be empty")
	}
	if strings.TrimSpace(b.Out) == "" {
		return fmt.Errorf("[build].out must not be empty")
	}
	if !strings.HasPrefix(b.SourceExt, ".") || len(b.SourceExt) < 2 {
		return fmt.Errorf("[build].source_ext must start with '.', got %q", b.SourceExt)
	}
	if !strings.HasPrefix(b.TargetExt, ".") || len(b.TargetExt) < 2 {
		return fmt.Errorf("[build].target_ext must start with '.', got %q", b.TargetExt)
	}
	if b.SourceExt == b.TargetExt {
		return fmt.Errorf("[build].source_ext and [build].target_ext must differ")
	}
	if b.Jobs < 0 {
		return fmt.Errorf("[build].jobs must be >= 0, got %d", b.Jobs)
	}
	if c.Check.MaxDepth <= 0 {
		return fmt.Errorf("[check].max_depth must be > 0, got %d", c.Check.MaxDepth)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must be >= 0, got %d", c.Check.MaxDiagnostics)
	}
	return nil
}

// CompileOptions converts the [check] section into compiler options.
func (c *Config) CompileOptions() compiler.Options {
	return compiler.Options{
		MaxDepth: c.Check.MaxDepth,
		Options: semantic.Options{
			InheritRules:   c.Check.InheritRules,
			TagParameters:  c.Check.TagParameters,
			MaxDiagnostics: c.Check.MaxDiagnostics,
		},
	}
}
