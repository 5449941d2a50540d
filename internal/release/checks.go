// Package release defines the ordered catalog of checks run against an
// Apache release candidate. Order matters: later checks depend on
// filesystem state produced by earlier ones (download, extract, clone).
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/relvet/internal/archive"
	"github.com/ZebulonRouseFrantzich/relvet/internal/build"
	"github.com/ZebulonRouseFrantzich/relvet/internal/check"
	"github.com/ZebulonRouseFrantzich/relvet/internal/dircmp"
	"github.com/ZebulonRouseFrantzich/relvet/internal/execute"
	"github.com/ZebulonRouseFrantzich/relvet/internal/gitrepo"
	"github.com/ZebulonRouseFrantzich/relvet/internal/state"
	"github.com/ZebulonRouseFrantzich/relvet/internal/verify"
)

// vcsOnlyFiles are files expected in the git checkout but legitimately
// absent from a source release. They double as the blacklist of files
// that must not leak into the archive.
var vcsOnlyFiles = []string{".git", ".gitignore", ".mvn", "mvnw", "mvnw.cmd", "Jenkinsfile"}

// generatedFiles are files a release archive may legitimately add on top
// of the checkout, such as build-time dependency manifests.
var generatedFiles = []string{"DEPENDENCIES"}

// Catalog builds release checks around the process runner used for
// build commands.
type Catalog struct {
	Runner execute.Runner
}

// Checks returns the full ordered check list for one verification run.
func (c *Catalog) Checks() []check.Check {
	return []check.Check{
		check.New("Source archive has expected name", checkArchiveExists),
		check.Hidden("SHA512 checksum exists with expected name", checkChecksumExists),
		check.Hidden("KEYS file exists", checkKeysFileExists),
		check.Hidden("ASC signature exists with expected name", checkSignatureExists),
		check.New("SHA512 checksum is correct", checkChecksum),
		check.New("Provided GPG key is in KEYS file", checkKeyInKeysFile),
		check.New("GPG signature is valid, made with the provided key", checkSignature),
		check.Hidden("Source archive can be unzipped", checkUnzip),
		check.New("Base dir in archive has expected name", checkBaseDir),
		check.New("Git tree at provided revision matches source archive", checkGitRevision),
		check.Hidden("No blacklisted files in the source archive", checkBlacklistedFiles),
		check.New("DISCLAIMER and NOTICE are present", checkDisclaimerAndNotice),
		check.Hidden("LICENSE is Apache 2.0", checkLicenseIsApache2),
		check.New("No binary files in the release", checkNoBinaryFiles),
		check.New("Source release builds cleanly", c.checkBuildAndTest),
	}
}

// requireFile is the shared shape of the existence checks: the message
// names the expected path so a reviewer can spot naming mismatches.
func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return check.Fail(fmt.Sprintf("expected file not found: %s", path))
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return check.Fail(fmt.Sprintf("%s is a directory, expected a file", path))
	}
	return nil
}

func checkArchiveExists(_ context.Context, st *state.State) error {
	return requireFile(st.ArchivePath())
}

func checkChecksumExists(_ context.Context, st *state.State) error {
	return requireFile(st.ChecksumPath())
}

func checkKeysFileExists(_ context.Context, st *state.State) error {
	return requireFile(st.KeysPath())
}

func checkSignatureExists(_ context.Context, st *state.State) error {
	return requireFile(st.SignaturePath())
}

func checkChecksum(_ context.Context, st *state.State) error {
	if err := verify.VerifySHA512(st.ArchivePath(), st.ChecksumPath()); err != nil {
		return check.Fail(err.Error())
	}
	return nil
}

func checkKeyInKeysFile(_ context.Context, st *state.State) error {
	keyring, err := verify.ReadKeysFile(st.KeysPath())
	if err != nil {
		return check.Fail(err.Error())
	}
	if _, err := verify.FindKey(keyring, st.SigningKey); err != nil {
		return check.Fail(err.Error())
	}
	return nil
}

func checkSignature(_ context.Context, st *state.State) error {
	keyring, err := verify.ReadKeysFile(st.KeysPath())
	if err != nil {
		return check.Fail(err.Error())
	}
	key, err := verify.FindKey(keyring, st.SigningKey)
	if err != nil {
		return check.Fail(err.Error())
	}
	if err := verify.CheckDetachedSignature(key, st.ArchivePath(), st.SignaturePath()); err != nil {
		return check.Fail(err.Error())
	}
	return nil
}

func checkUnzip(_ context.Context, st *state.State) error {
	if err := archive.Unzip(st.ArchivePath(), st.ExtractDir()); err != nil {
		return check.Fail(err.Error())
	}
	return nil
}

func checkBaseDir(_ context.Context, st *state.State) error {
	info, err := os.Stat(st.SourceDir())
	if err != nil {
		if os.IsNotExist(err) {
			return check.Fail(fmt.Sprintf("expected directory not found: %s", st.SourceDir()))
		}
		return fmt.Errorf("stat %s: %w", st.SourceDir(), err)
	}
	if !info.IsDir() {
		return check.Fail(fmt.Sprintf("%s is not a directory", st.SourceDir()))
	}
	return nil
}

func checkGitRevision(ctx context.Context, st *state.State) error {
	url := gitrepo.DefaultRemoteBase + st.RepoName()
	if err := gitrepo.CloneAtRevision(ctx, url, st.GitDir(), st.Revision); err != nil {
		return check.Fail(err.Error())
	}

	diff, err := dircmp.Compare(st.GitDir(), st.SourceDir())
	if err != nil {
		return check.Fail(err.Error())
	}
	problems := diff.Problems(vcsOnlyFiles, generatedFiles)
	if len(problems) > 0 {
		return check.Fail(strings.Join(problems, "\n\n"))
	}
	return nil
}

func checkBlacklistedFiles(_ context.Context, st *state.State) error {
	var found []string
	err := filepath.WalkDir(st.SourceDir(), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		for _, name := range vcsOnlyFiles {
			if entry.Name() == name {
				found = append(found, path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk source dir: %w", err)
	}
	if len(found) > 0 {
		return check.Fail("blacklisted files present in the source archive: " + strings.Join(found, " "))
	}
	return nil
}

func checkDisclaimerAndNotice(_ context.Context, st *state.State) error {
	var problems []string
	if _, err := os.Stat(filepath.Join(st.SourceDir(), "NOTICE")); err != nil {
		problems = append(problems, "NOTICE file is missing")
	}
	_, disclaimerErr := os.Stat(filepath.Join(st.SourceDir(), "DISCLAIMER"))
	if disclaimerErr != nil {
		if st.Incubating {
			problems = append(problems, "DISCLAIMER file is missing (required while incubating)")
		} else if len(problems) == 0 {
			return check.Note("no DISCLAIMER file; fine for a non-incubating release")
		}
	}
	if len(problems) > 0 {
		return check.Fail(strings.Join(problems, "\n"))
	}
	return nil
}

func checkLicenseIsApache2(_ context.Context, st *state.State) error {
	data, err := os.ReadFile(filepath.Join(st.SourceDir(), "LICENSE"))
	if err != nil {
		return check.Fail(fmt.Sprintf("cannot read LICENSE: %v", err))
	}
	if normalizeSpace(string(data)) != normalizeSpace(apache2LicenseText) {
		return check.Fail("LICENSE does not match the Apache License 2.0 text")
	}
	return nil
}

func checkNoBinaryFiles(_ context.Context, st *state.State) error {
	var binaries []string
	err := filepath.WalkDir(st.SourceDir(), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		binary, sniffErr := looksBinary(path)
		if sniffErr != nil {
			return sniffErr
		}
		if binary {
			binaries = append(binaries, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk source dir: %w", err)
	}
	if len(binaries) > 0 {
		return check.Fail("binary files present in the release: " + strings.Join(binaries, " "))
	}
	return nil
}

func (c *Catalog) checkBuildAndTest(ctx context.Context, st *state.State) error {
	if err := build.BuildAndTest(ctx, c.Runner, st.SourceDir(), st.BuildCommand); err != nil {
		return check.Fail(err.Error())
	}
	return nil
}

// looksBinary sniffs the first 8 KiB of a file for a NUL byte, the same
// heuristic `grep -I` and git use to classify binary content.
func looksBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 8192)
	n, err := file.Read(buf)
	if err != nil && n == 0 {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true, nil
		}
	}
	return false, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
