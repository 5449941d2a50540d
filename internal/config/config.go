// Package config resolves the verifier's configuration from layered
// sources: built-in defaults, a remote preset, a local YAML file, and
// explicit CLI flags, in increasing precedence. The result is resolved
// once into an immutable State before any check runs.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Repository tiers a release candidate can be staged in.
const (
	TierDev     = "dev"
	TierRelease = "release"
	TierTest    = "test"
)

// Config is one configuration layer. Zero-valued fields are "unset" and
// do not override lower-precedence layers; Incubating is a pointer so
// an explicit false survives merging.
type Config struct {
	Project    string `yaml:"project"`
	Module     string `yaml:"module"`
	Version    string `yaml:"version"`
	Tier       string `yaml:"repo"`
	Incubating *bool  `yaml:"incubating"`

	ArchiveTemplate   string `yaml:"zipname_template"`
	SourceDirTemplate string `yaml:"sourcedir_template"`
	RepoTemplate      string `yaml:"github_reponame_template"`

	SigningKey   string `yaml:"gpg_key"`
	Revision     string `yaml:"git_hash"`
	BuildCommand string `yaml:"build_and_test_command"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in bottom layer.
func Default() Config {
	incubating := true
	return Config{
		Project:           "zipkin",
		Tier:              TierDev,
		Incubating:        &incubating,
		ArchiveTemplate:   "apache-{project}{dash_module}{dash_incubating}-{version}-source-release",
		SourceDirTemplate: "{module_or_project}-{version}",
		RepoTemplate:      "{incubator_dash}{project}{dash_module}.git",
	}
}

// Merge applies overlay on top of c: every set field of overlay wins.
func (c *Config) Merge(overlay Config) {
	if overlay.Project != "" {
		c.Project = overlay.Project
	}
	if overlay.Module != "" {
		c.Module = overlay.Module
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Tier != "" {
		c.Tier = overlay.Tier
	}
	if overlay.Incubating != nil {
		c.Incubating = overlay.Incubating
	}
	if overlay.ArchiveTemplate != "" {
		c.ArchiveTemplate = overlay.ArchiveTemplate
	}
	if overlay.SourceDirTemplate != "" {
		c.SourceDirTemplate = overlay.SourceDirTemplate
	}
	if overlay.RepoTemplate != "" {
		c.RepoTemplate = overlay.RepoTemplate
	}
	if overlay.SigningKey != "" {
		c.SigningKey = overlay.SigningKey
	}
	if overlay.Revision != "" {
		c.Revision = overlay.Revision
	}
	if overlay.BuildCommand != "" {
		c.BuildCommand = overlay.BuildCommand
	}
	if overlay.Verbose {
		c.Verbose = true
	}
}

// Validate checks that the merged configuration is complete enough to
// start a run.
func (c Config) Validate() error {
	var missing []string
	if c.Version == "" {
		missing = append(missing, "version")
	}
	if c.SigningKey == "" {
		missing = append(missing, "gpg-key")
	}
	if c.Revision == "" {
		missing = append(missing, "git-hash")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required options: %s", strings.Join(missing, ", "))
	}
	switch c.Tier {
	case TierDev, TierRelease, TierTest:
	default:
		return fmt.Errorf("invalid repo tier %q (must be %s, %s, or %s)", c.Tier, TierDev, TierRelease, TierTest)
	}
	return nil
}

// LoadFile reads one YAML configuration layer from disk.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML layer. Hyphenated keys, as used in preset files
// and on the CLI, map to the corresponding underscored field names.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("unmarshal yaml: %w", err)
	}

	normalized := make(map[string]any, len(raw))
	for key, value := range raw {
		normalized[strings.ReplaceAll(key, "-", "_")] = value
	}

	// Round-trip through yaml so the normalized keys bind to the
	// struct's underscored tags.
	reencoded, err := yaml.Marshal(normalized)
	if err != nil {
		return Config{}, fmt.Errorf("re-encode yaml: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(reencoded, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
