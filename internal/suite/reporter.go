package suite

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"chat-tester/internal/types"
	"chat-tester/log"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Reporter prints each case outcome as it lands and the final summary.
type Reporter struct {
	out     io.Writer
	results []types.CaseResult
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) Record(no int, name string, passed bool) {
	result := types.CaseResult{No: no, Name: name, Outcome: types.OutcomeOf(passed)}
	r.results = append(r.results, result)
	fmt.Fprintf(r.out, "TESTER: Case %d %s\n", no, result.Outcome)
	log.GetLogger().Debug("case recorded", zap.Int("case", no), zap.String("name", name), zap.Stringer("outcome", result.Outcome))
}

func (r *Reporter) Summary() types.Summary {
	failed := lo.FilterMap(r.results, func(res types.CaseResult, _ int) (int, bool) {
		return res.No, !res.Passed()
	})
	return types.Summary{
		Results: append([]types.CaseResult(nil), r.results...),
		Failed:  failed,
	}
}

// PrintSummary writes the closing lines. Success is judged only by the
// failed-case list.
func (r *Reporter) PrintSummary() types.Summary {
	summary := r.Summary()
	if summary.Passed() {
		fmt.Fprintln(r.out, "TESTER: All tests passed.")
		return summary
	}
	fmt.Fprintln(r.out, "TESTER: Review the tests: ")
	fmt.Fprintln(r.out, FormatFailed(summary.Failed))
	return summary
}

// FormatFailed renders case numbers as "[2, 5]".
func FormatFailed(failed []int) string {
	return "[" + strings.Join(lo.Map(failed, func(no int, _ int) string { return strconv.Itoa(no) }), ", ") + "]"
}
