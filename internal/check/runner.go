package check

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/relvet/internal/state"
	"github.com/ZebulonRouseFrantzich/relvet/internal/ui"
)

// Runner executes an ordered list of checks against a shared State.
// Order is significant: later checks assume filesystem side effects of
// earlier ones (the archive is extracted before its contents are
// compared). One broken check never aborts the run.
type Runner struct {
	// Out receives step announcements and immediate failure output so a
	// human watching a long run sees problems as they occur. Defaults to
	// os.Stdout.
	Out io.Writer
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// Run executes every check in order and returns the aggregated report.
// It never returns an error: expected failures are recorded as FAIL,
// WARN, or NOTE, and unexpected errors or panics as ERROR.
func (r *Runner) Run(ctx context.Context, st *state.State, checks []Check) Report {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		fmt.Fprintln(r.out(), ui.Step("Running check: "+c.Name))
		results = append(results, r.runOne(ctx, st, c))
	}
	return Report{Results: results}
}

func (r *Runner) runOne(ctx context.Context, st *state.State, c Check) (result Result) {
	result = Result{Name: c.Name, HideIfPassing: c.HideIfPassing, Kind: KindPass}

	defer func() {
		if rec := recover(); rec != nil {
			result.Kind = KindError
			result.Message = fmt.Sprintf("check panicked: %v", rec)
		}
		if !result.Passed() {
			fmt.Fprintln(r.out(), ui.Bad(fmt.Sprintf("[%s] %s", result.Kind, result.Message)))
		}
	}()

	err := c.Func(ctx, st)
	if err == nil {
		return result
	}
	result.Kind, result.Message = classify(err)
	return result
}
