// Package check provides the ordered check-execution engine: named
// pass/fail verification units, the runner that executes them against a
// shared State, and the report model the results aggregate into.
package check

import (
	"context"
	"errors"
	"strings"

	"github.com/ZebulonRouseFrantzich/relvet/internal/state"
)

// Func is the behavior of a single check. A nil return records PASS.
// Errors built with Fail, Warn, or Note record the matching severity;
// any other error is treated as an unexpected failure and recorded as
// ERROR without aborting the run.
type Func func(ctx context.Context, st *state.State) error

// Check is a named, independently pass/fail unit of verification.
type Check struct {
	Name          string
	HideIfPassing bool
	Func          Func
}

// New builds a check with an explicit display name.
func New(name string, fn Func) Check {
	return Check{Name: name, Func: fn}
}

// Hidden builds a check whose result is suppressed from the report when
// it passes. Used for noise checks a reviewer only cares about on failure.
func Hidden(name string, fn Func) Check {
	return Check{Name: name, HideIfPassing: true, Func: fn}
}

// NiceName derives a display name from a function-like identifier by
// stripping the conventional "check_" prefix and replacing separators
// with spaces. It is a constructor convenience only.
func NiceName(ident string) string {
	ident = strings.TrimPrefix(ident, "check_")
	ident = strings.ReplaceAll(ident, "_", " ")
	return ident
}

// finding is an expected check outcome carrying its severity.
type finding struct {
	kind Kind
	msg  string
}

func (f *finding) Error() string { return f.msg }

// Fail reports an ordinary check failure.
func Fail(msg string) error { return &finding{kind: KindFail, msg: msg} }

// Warn reports a soft failure the reviewer should look at.
func Warn(msg string) error { return &finding{kind: KindWarn, msg: msg} }

// Note reports an informational, non-passing outcome.
func Note(msg string) error { return &finding{kind: KindNote, msg: msg} }

// classify maps a check error to the severity it should be recorded with.
// Expected findings keep their own kind; anything else is an unexpected
// error.
func classify(err error) (Kind, string) {
	var f *finding
	if errors.As(err, &f) {
		return f.kind, f.msg
	}
	return KindError, err.Error()
}
