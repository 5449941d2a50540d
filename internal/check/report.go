package check

// Kind is the severity of a single check result.
type Kind int

const (
	KindPass Kind = iota
	KindFail
	KindWarn
	KindNote
	KindError
)

// String returns the severity label used in the rendered report.
func (k Kind) String() string {
	switch k {
	case KindPass:
		return "PASS"
	case KindFail:
		return "FAIL"
	case KindWarn:
		return "WARN"
	case KindNote:
		return "NOTE"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one check. Message is empty iff Kind is PASS.
type Result struct {
	Name          string
	HideIfPassing bool
	Message       string
	Kind          Kind
}

// Passed reports whether the check completed without findings.
func (r Result) Passed() bool { return r.Kind == KindPass }

// Report is the ordered sequence of results for one run. It is immutable
// once the runner returns it.
type Report struct {
	Results []Result
}

// ProblemCount is the number of non-passing results. The process should
// exit successfully iff it is zero.
func (r Report) ProblemCount() int {
	problems := 0
	for _, result := range r.Results {
		if !result.Passed() {
			problems++
		}
	}
	return problems
}
