// Package dircmp recursively compares a version-control checkout (the
// left tree) against an extracted source release archive (the right
// tree). It accumulates every discrepancy across the whole tree instead
// of stopping at the first divergent directory, and applies allow-lists
// for files that legitimately exist on only one side.
package dircmp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirDiff describes the comparison of one directory pair: entries
// present on only one side, common files whose content differs, entries
// that could not be compared, and nested diffs for common subdirectories.
type DirDiff struct {
	Left  string
	Right string

	LeftOnly   []string
	RightOnly  []string
	DiffFiles  []string
	FunnyFiles []string
	Subdirs    map[string]*DirDiff
}

// Compare builds the full recursive DirDiff for two directory trees.
// It fails only when one of the two root directories cannot be read;
// deeper problems are recorded as funny files instead.
func Compare(left, right string) (*DirDiff, error) {
	leftEntries, err := readNames(left)
	if err != nil {
		return nil, fmt.Errorf("read left dir: %w", err)
	}
	rightEntries, err := readNames(right)
	if err != nil {
		return nil, fmt.Errorf("read right dir: %w", err)
	}

	diff := &DirDiff{Left: left, Right: right, Subdirs: map[string]*DirDiff{}}

	var common []string
	for name := range leftEntries {
		if _, ok := rightEntries[name]; ok {
			common = append(common, name)
		} else {
			diff.LeftOnly = append(diff.LeftOnly, name)
		}
	}
	for name := range rightEntries {
		if _, ok := leftEntries[name]; !ok {
			diff.RightOnly = append(diff.RightOnly, name)
		}
	}
	sort.Strings(diff.LeftOnly)
	sort.Strings(diff.RightOnly)
	sort.Strings(common)

	for _, name := range common {
		leftPath := filepath.Join(left, name)
		rightPath := filepath.Join(right, name)
		leftInfo, leftErr := os.Stat(leftPath)
		rightInfo, rightErr := os.Stat(rightPath)
		if leftErr != nil || rightErr != nil {
			diff.FunnyFiles = append(diff.FunnyFiles, name)
			continue
		}

		switch {
		case leftInfo.IsDir() && rightInfo.IsDir():
			sub, err := Compare(leftPath, rightPath)
			if err != nil {
				diff.FunnyFiles = append(diff.FunnyFiles, name)
				continue
			}
			diff.Subdirs[name] = sub
		case leftInfo.IsDir() != rightInfo.IsDir():
			// Directory on one side, file on the other.
			diff.FunnyFiles = append(diff.FunnyFiles, name)
		default:
			equal, err := sameContents(leftPath, rightPath)
			if err != nil {
				diff.FunnyFiles = append(diff.FunnyFiles, name)
			} else if !equal {
				diff.DiffFiles = append(diff.DiffFiles, name)
			}
		}
	}

	return diff, nil
}

// Problems flattens the diff into human-readable discrepancy messages.
// Entries named in allowedLeftOnly may exist only in the checkout, and
// entries in allowedRightOnly only in the archive, without being
// reported. The allow-lists apply at every directory level. An empty
// return means the trees are equivalent.
func (d *DirDiff) Problems(allowedLeftOnly, allowedRightOnly []string) []string {
	var problems []string

	for _, name := range d.LeftOnly {
		if !contains(allowedLeftOnly, name) {
			problems = append(problems, filepath.Join(d.Left, name)+" is only in the git checkout")
		}
	}
	for _, name := range d.RightOnly {
		if !contains(allowedRightOnly, name) {
			problems = append(problems, filepath.Join(d.Right, name)+" is only in the source archive")
		}
	}
	if len(d.DiffFiles) > 0 {
		problems = append(problems,
			"The contents of the following files differ: "+strings.Join(qualify(d.Right, d.DiffFiles), " "))
	}
	if len(d.FunnyFiles) > 0 {
		problems = append(problems,
			"Failed to compare contents of the following files: "+strings.Join(qualify(d.Right, d.FunnyFiles), " "))
	}

	for _, name := range sortedSubdirs(d.Subdirs) {
		problems = append(problems, d.Subdirs[name].Problems(allowedLeftOnly, allowedRightOnly)...)
	}
	return problems
}

func readNames(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		names[entry.Name()] = struct{}{}
	}
	return names, nil
}

// sameContents reports whether two regular files are byte-identical.
func sameContents(leftPath, rightPath string) (bool, error) {
	leftFile, err := os.Open(leftPath)
	if err != nil {
		return false, err
	}
	defer leftFile.Close()

	rightFile, err := os.Open(rightPath)
	if err != nil {
		return false, err
	}
	defer rightFile.Close()

	leftBuf := make([]byte, 64*1024)
	rightBuf := make([]byte, 64*1024)
	for {
		leftN, leftErr := io.ReadFull(leftFile, leftBuf)
		rightN, rightErr := io.ReadFull(rightFile, rightBuf)
		if !bytes.Equal(leftBuf[:leftN], rightBuf[:rightN]) {
			return false, nil
		}
		leftDone := leftErr == io.EOF || leftErr == io.ErrUnexpectedEOF
		rightDone := rightErr == io.EOF || rightErr == io.ErrUnexpectedEOF
		if leftErr != nil && !leftDone {
			return false, leftErr
		}
		if rightErr != nil && !rightDone {
			return false, rightErr
		}
		if leftDone || rightDone {
			return leftN == rightN && leftDone && rightDone, nil
		}
	}
}

func qualify(dir string, names []string) []string {
	qualified := make([]string, len(names))
	for i, name := range names {
		qualified[i] = filepath.Join(dir, name)
	}
	return qualified
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func sortedSubdirs(subdirs map[string]*DirDiff) []string {
	names := make([]string, 0, len(subdirs))
	for name := range subdirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
