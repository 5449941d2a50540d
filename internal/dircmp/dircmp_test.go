package dircmp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree materializes a map of relative path -> content under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func compareProblems(t *testing.T, left, right string, allowedLeft, allowedRight []string) []string {
	t.Helper()
	diff, err := Compare(left, right)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	return diff.Problems(allowedLeft, allowedRight)
}

func TestCompare_IdenticalTrees(t *testing.T) {
	files := map[string]string{
		"README.md":        "hello",
		"src/main.go":      "package main",
		"src/deep/util.go": "package deep",
	}
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, files)
	writeTree(t, right, files)

	problems := compareProblems(t, left, right, nil, nil)
	if len(problems) != 0 {
		t.Errorf("Problems() = %v, want none for identical trees", problems)
	}

	// Allow-lists must not change the verdict for identical trees.
	problems = compareProblems(t, left, right, []string{".git"}, []string{"DEPENDENCIES"})
	if len(problems) != 0 {
		t.Errorf("Problems() with allow-lists = %v, want none", problems)
	}
}

func TestCompare_LeftOnlyFile(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{"README.md": "x", "Jenkinsfile": "pipeline"})
	writeTree(t, right, map[string]string{"README.md": "x"})

	problems := compareProblems(t, left, right, nil, nil)
	if len(problems) != 1 {
		t.Fatalf("Problems() = %v, want exactly one", problems)
	}
	if !strings.Contains(problems[0], "Jenkinsfile") || !strings.Contains(problems[0], "only in the git checkout") {
		t.Errorf("problem = %q, want Jenkinsfile reported as only in the git checkout", problems[0])
	}
}

func TestCompare_AllowedLeftOnlyFile(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{"README.md": "x", ".gitignore": "target/"})
	writeTree(t, right, map[string]string{"README.md": "x"})

	problems := compareProblems(t, left, right, []string{".gitignore"}, nil)
	if len(problems) != 0 {
		t.Errorf("Problems() = %v, want none when the one-sided file is allowed", problems)
	}
}

func TestCompare_RightOnlyFile(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{"README.md": "x"})
	writeTree(t, right, map[string]string{"README.md": "x", "build.log": "noise"})

	problems := compareProblems(t, left, right, nil, nil)
	if len(problems) != 1 {
		t.Fatalf("Problems() = %v, want exactly one", problems)
	}
	if !strings.Contains(problems[0], "build.log") || !strings.Contains(problems[0], "only in the source archive") {
		t.Errorf("problem = %q, want build.log reported as only in the source archive", problems[0])
	}
}

func TestCompare_ContentMismatch(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{"pom.xml": "<project>1</project>"})
	writeTree(t, right, map[string]string{"pom.xml": "<project>2</project>"})

	problems := compareProblems(t, left, right, nil, nil)
	if len(problems) != 1 {
		t.Fatalf("Problems() = %v, want exactly one", problems)
	}
	if !strings.Contains(problems[0], "pom.xml") || !strings.Contains(problems[0], "differ") {
		t.Errorf("problem = %q, want a content mismatch naming pom.xml", problems[0])
	}
}

func TestCompare_RecursionContinuesAcrossSiblings(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{
		"a/file.txt": "same",
		"b/file.txt": "left version",
		"c/file.txt": "also differs",
	})
	writeTree(t, right, map[string]string{
		"a/file.txt": "same",
		"b/file.txt": "right version",
		"c/file.txt": "differs too",
	})

	problems := compareProblems(t, left, right, nil, nil)
	if len(problems) != 2 {
		t.Fatalf("Problems() = %v, want mismatches from both sibling subdirectories", problems)
	}
	joined := strings.Join(problems, "\n")
	for _, sub := range []string{"b", "c"} {
		if !strings.Contains(joined, filepath.Join(right, sub, "file.txt")) {
			t.Errorf("problems %q missing mismatch under %q", joined, sub)
		}
	}
}

func TestCompare_NestedOneSidedEntries(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{
		"src/main.go":      "package main",
		"src/.gitignore":   "bin/",
		"src/only_left.go": "package main",
	})
	writeTree(t, right, map[string]string{
		"src/main.go": "package main",
	})

	problems := compareProblems(t, left, right, []string{".gitignore"}, nil)
	if len(problems) != 1 {
		t.Fatalf("Problems() = %v, want only the non-allowed nested file", problems)
	}
	if !strings.Contains(problems[0], "only_left.go") {
		t.Errorf("problem = %q, want only_left.go reported", problems[0])
	}
}

func TestCompare_FunnyFile(t *testing.T) {
	left, right := t.TempDir(), t.TempDir()
	writeTree(t, left, map[string]string{"thing": "file content"})
	if err := os.MkdirAll(filepath.Join(right, "thing"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	problems := compareProblems(t, left, right, nil, nil)
	if len(problems) != 1 {
		t.Fatalf("Problems() = %v, want exactly one", problems)
	}
	if !strings.Contains(problems[0], "Failed to compare") {
		t.Errorf("problem = %q, want an uncomparable-entry report", problems[0])
	}
}

func TestCompare_MissingRootDir(t *testing.T) {
	left := t.TempDir()
	if _, err := Compare(left, filepath.Join(left, "does-not-exist")); err == nil {
		t.Error("Compare() expected error for missing root directory")
	}
}

func TestSameContents_LengthDiffers(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short")
	long := filepath.Join(dir, "long")
	if err := os.WriteFile(short, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(long, []byte("abcdef"), 0644); err != nil {
		t.Fatal(err)
	}

	equal, err := sameContents(short, long)
	if err != nil {
		t.Fatalf("sameContents() error = %v", err)
	}
	if equal {
		t.Error("sameContents() = true for files of different length")
	}
}

func TestSameContents_EmptyFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	equal, err := sameContents(a, b)
	if err != nil {
		t.Fatalf("sameContents() error = %v", err)
	}
	if !equal {
		t.Error("sameContents() = false for two empty files")
	}
}
