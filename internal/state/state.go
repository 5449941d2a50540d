// Package state holds the immutable per-run configuration of a release
// verification and derives every path used by the checks from it.
package state

import "path/filepath"

// State is the resolved configuration for one verification run. It is
// immutable after New returns; all derived paths are pure functions of
// its fields.
type State struct {
	Project    string
	Module     string // empty when the project has no submodule
	Version    string
	WorkDir    string
	Incubating bool

	// SigningKey is the ID or fingerprint of the GPG key the release is
	// said to be signed with. Revision is the git commit the release is
	// said to be built from.
	SigningKey string
	Revision   string

	// Naming templates, already validated against the placeholder set.
	ArchiveTemplate   string
	SourceDirTemplate string
	RepoTemplate      string

	// BuildCommand, when set, replaces build-ecosystem detection.
	BuildCommand string
}

// New validates the naming templates against the placeholder set derived
// from the other fields and returns an immutable State. A template that
// references an unknown placeholder yields a *ConfigError.
func New(st State) (*State, error) {
	for _, tmpl := range []string{st.ArchiveTemplate, st.SourceDirTemplate, st.RepoTemplate} {
		if _, err := Resolve(tmpl, st.Placeholders()); err != nil {
			return nil, err
		}
	}
	return &st, nil
}

// Placeholders returns the template-variable map derived from the State.
// Optional concepts (module, incubating status) contribute four decorated
// variants each, so templates never need conditionals.
func (s *State) Placeholders() map[string]string {
	moduleOrProject := s.Module
	if moduleOrProject == "" {
		moduleOrProject = s.Project
	}
	placeholders := map[string]string{
		"project":           s.Project,
		"module":            s.Module,
		"module_or_project": moduleOrProject,
		"version":           s.Version,
	}
	optionalPlaceholders(placeholders, "module", s.Module, s.Module != "")
	optionalPlaceholders(placeholders, "incubating", "incubating", s.Incubating)
	optionalPlaceholders(placeholders, "incubator", "incubator", s.Incubating)
	return placeholders
}

// PlaceholderKeys lists every valid placeholder name, for help text.
func (s *State) PlaceholderKeys() []string {
	return sortedKeys(s.Placeholders())
}

// mustResolve expands a template that New already validated.
func (s *State) mustResolve(template string) string {
	resolved, err := Resolve(template, s.Placeholders())
	if err != nil {
		panic(err) // unreachable: templates are validated in New
	}
	return resolved
}

// ReleaseDir is the directory the release artifacts are downloaded into.
func (s *State) ReleaseDir() string {
	return filepath.Join(s.WorkDir, s.Project, s.Module, s.Version)
}

// ArchivePath is the expected path of the source release zip.
func (s *State) ArchivePath() string {
	return filepath.Join(s.ReleaseDir(), s.mustResolve(s.ArchiveTemplate)+".zip")
}

// ChecksumPath is the expected path of the SHA512 checksum file.
func (s *State) ChecksumPath() string {
	return s.ArchivePath() + ".sha512"
}

// SignaturePath is the expected path of the detached GPG signature.
func (s *State) SignaturePath() string {
	return s.ArchivePath() + ".asc"
}

// KeysPath is the path the published KEYS file is downloaded to.
func (s *State) KeysPath() string {
	return filepath.Join(s.WorkDir, "KEYS")
}

// ExtractDir is the directory the archive is extracted into.
func (s *State) ExtractDir() string {
	return filepath.Join(s.WorkDir, "unzipped")
}

// SourceDir is the expected top-level directory inside the archive.
func (s *State) SourceDir() string {
	return filepath.Join(s.ExtractDir(), s.mustResolve(s.SourceDirTemplate))
}

// RepoName is the resolved name of the project's remote git repository.
func (s *State) RepoName() string {
	return s.mustResolve(s.RepoTemplate)
}

// GitDir is the directory the repository is cloned into.
func (s *State) GitDir() string {
	return filepath.Join(s.WorkDir, "git", s.RepoName())
}
