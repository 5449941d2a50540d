package check

import (
	"strings"
	"testing"
)

func TestRender_HidesPassingHiddenChecks(t *testing.T) {
	report := Report{Results: []Result{
		{Name: "noisy but fine", HideIfPassing: true, Kind: KindPass},
		{Name: "visible pass", Kind: KindPass},
	}}

	out := Render(report)

	if strings.Contains(out, "noisy but fine") {
		t.Errorf("Render() shows a passing hidden check:\n%s", out)
	}
	if !strings.Contains(out, "visible pass") {
		t.Errorf("Render() misses a visible passing check:\n%s", out)
	}
}

func TestRender_ShowsHiddenCheckWhenFailing(t *testing.T) {
	report := Report{Results: []Result{
		{Name: "hidden check", HideIfPassing: true, Kind: KindFail, Message: "went wrong"},
	}}

	out := Render(report)

	if !strings.Contains(out, "hidden check") {
		t.Errorf("Render() hides a failing hidden check:\n%s", out)
	}
	if !strings.Contains(out, "went wrong") {
		t.Errorf("Render() misses the failure message:\n%s", out)
	}
}

func TestRender_MessageOnlyForNonPassing(t *testing.T) {
	report := Report{Results: []Result{
		{Name: "good", Kind: KindPass},
		{Name: "bad", Kind: KindFail, Message: "details here"},
	}}

	out := Render(report)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	var badIdx = -1
	for i, line := range lines {
		if strings.Contains(line, "bad") && strings.Contains(line, "FAIL") {
			badIdx = i
		}
	}
	if badIdx == -1 {
		t.Fatalf("Render() output missing FAIL line:\n%s", out)
	}
	if badIdx+1 >= len(lines) || !strings.Contains(lines[badIdx+1], "details here") {
		t.Errorf("failure message not on the line after the FAIL entry:\n%s", out)
	}
}

func TestRender_TagWidthFromLongestKind(t *testing.T) {
	// ERROR (5 chars) present: PASS must be padded into a 5-wide tag,
	// ceil on the left.
	report := Report{Results: []Result{
		{Name: "ok", Kind: KindPass},
		{Name: "broken", Kind: KindError, Message: "bang"},
	}}

	out := Render(report)

	if !strings.Contains(stripANSI(out), "[ PASS] ok") {
		t.Errorf("PASS tag not centered to ERROR width:\n%s", stripANSI(out))
	}
	if !strings.Contains(stripANSI(out), "[ERROR] broken") {
		t.Errorf("ERROR tag malformed:\n%s", stripANSI(out))
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPass, "PASS"},
		{KindFail, "FAIL"},
		{KindWarn, "WARN"},
		{KindNote, "NOTE"},
		{KindError, "ERROR"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestReport_ProblemCount(t *testing.T) {
	report := Report{Results: []Result{
		{Kind: KindPass},
		{Kind: KindFail, Message: "x"},
		{Kind: KindWarn, Message: "y"},
		{Kind: KindNote, Message: "z"},
		{Kind: KindError, Message: "w"},
		{Kind: KindPass},
	}}
	if got := report.ProblemCount(); got != 4 {
		t.Errorf("ProblemCount() = %d, want 4", got)
	}

	empty := Report{}
	if got := empty.ProblemCount(); got != 0 {
		t.Errorf("ProblemCount() on empty report = %d, want 0", got)
	}
}

// stripANSI removes color escape sequences so assertions see the plain
// layout.
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
