package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the driver's project configuration, loaded from a
// `cxy.yaml` manifest (mirroring the teacher's yaml.v3-based project
// manifest) and overridable by a `.env` file and the process
// environment, the way the teacher's CLI layers config sources.
type Config struct {
	// SearchPaths are the directories (or glob patterns, e.g.
	// "vendor/**", expanded against the importing file's directory)
	// searched for a bare module import, one without a `./`, `../` or
	// `std/` prefix; they are the only places such an import is looked up.
	SearchPaths []string `yaml:"searchPaths"`

	// StdlibPath is the directory holding std/* modules.
	StdlibPath string `yaml:"stdlibPath"`

	// WarningsAsErrors is read from the manifest; nothing in the driver
	// consults it, so warnings are not promoted to errors.
	WarningsAsErrors bool `yaml:"warningsAsErrors"`

	// ErrorLimit bounds diagnostics.Log's error count before it stops
	// emitting further errors (0 = unlimited, spec.md §3.5).
	ErrorLimit int `yaml:"errorLimit"`

	// Defines seed the preprocessor's `@define` table before any file
	// is expanded, equivalent to a `-D NAME=value` compiler flag.
	Defines map[string]string `yaml:"defines"`
}

// DefaultConfig returns a Config with the teacher's environment-variable
// fallback behavior: CXY_STDLIB/CXY_PATH override the built-in
// defaults, renamed from AILANG_STDLIB/AILANG_PATH.
func DefaultConfig() *Config {
	cfg := &Config{
		ErrorLimit: 0,
		StdlibPath: defaultStdlibPath(),
		Defines:    map[string]string{},
	}
	if path := os.Getenv("CXY_PATH"); path != "" {
		cfg.SearchPaths = append(cfg.SearchPaths, strings.Split(path, string(os.PathListSeparator))...)
	}
	return cfg
}

func defaultStdlibPath() string {
	if stdlib := os.Getenv("CXY_STDLIB"); stdlib != "" {
		return stdlib
	}
	if exe, err := os.Executable(); err == nil {
		stdlib := filepath.Join(filepath.Dir(exe), "..", "stdlib")
		if info, err := os.Stat(stdlib); err == nil && info.IsDir() {
			return stdlib
		}
	}
	return filepath.Join(".", "stdlib")
}

// LoadConfig reads a cxy.yaml manifest at path, then applies a
// sibling .env file (if present) as environment overrides before
// re-reading CXY_* variables, mirroring the teacher's layered
// manifest-then-environment config precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	envPath := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Overload(envPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnvOverrides(cfg), nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return applyEnvOverrides(cfg), nil
}

func applyEnvOverrides(cfg *Config) *Config {
	if stdlib := os.Getenv("CXY_STDLIB"); stdlib != "" {
		cfg.StdlibPath = stdlib
	}
	if path := os.Getenv("CXY_PATH"); path != "" {
		cfg.SearchPaths = append(cfg.SearchPaths, strings.Split(path, string(os.PathListSeparator))...)
	}
	return cfg
}

// expandSearchPaths resolves any glob pattern in SearchPaths (e.g.
// "vendor/**") against root into concrete directories, using
// doublestar so `**` recursion works the same on every platform.
func (c *Config) expandSearchPaths(root string) []string {
	out := make([]string, 0, len(c.SearchPaths))
	for _, p := range c.SearchPaths {
		if !strings.ContainsAny(p, "*?[") {
			out = append(out, p)
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(root), p)
		if err != nil {
			continue
		}
		for _, m := range matches {
			out = append(out, filepath.Join(root, m))
		}
	}
	return out
}
