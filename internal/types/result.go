package types

type CaseOutcome uint8

const (
	CaseOutcomePassed CaseOutcome = iota + 1
	CaseOutcomeFailed
)

func (o CaseOutcome) String() string {
	switch o {
	case CaseOutcomePassed:
		return "Success"
	case CaseOutcomeFailed:
		return "Failed"
	default:
		return "unknown"
	}
}

func OutcomeOf(passed bool) CaseOutcome {
	if passed {
		return CaseOutcomePassed
	}
	return CaseOutcomeFailed
}

// CaseResult is the recorded outcome of one numbered case.
type CaseResult struct {
	No      int
	Name    string
	Outcome CaseOutcome
}

func (r CaseResult) Passed() bool {
	return r.Outcome == CaseOutcomePassed
}

// Summary is the end-of-run view. The run passed iff Failed is empty.
type Summary struct {
	Results []CaseResult
	Failed  []int
}

func (s Summary) Passed() bool {
	return len(s.Failed) == 0
}
