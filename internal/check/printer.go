package check

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/relvet/internal/ui"
)

// Render formats the report for the terminal. Passing checks flagged
// HideIfPassing are suppressed; every shown entry gets a fixed-width,
// centered severity tag, and non-passing entries print their message on
// the following line. The tag width is computed from the longest
// severity label actually present so the columns stay aligned.
func Render(report Report) string {
	var sb strings.Builder
	sb.WriteString(ui.Header("Summary follows"))
	sb.WriteString("\n")

	maxLen := 0
	for _, result := range report.Results {
		if n := len(result.Kind.String()); n > maxLen {
			maxLen = n
		}
	}

	for _, result := range report.Results {
		if result.Passed() && result.HideIfPassing {
			continue
		}
		label := result.Kind.String()
		left := (maxLen - len(label) + 1) / 2
		right := (maxLen - len(label)) / 2
		tag := strings.Repeat(" ", left) + ui.Severity(label).Render(label) + strings.Repeat(" ", right)
		sb.WriteString(fmt.Sprintf("[%s] %s\n", tag, result.Name))
		if !result.Passed() {
			sb.WriteString(result.Message)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
