package pipeline

// RunStatus is the caller-facing outcome classification.
type RunStatus string

const (
	// RunSuccess: the verifier passed the candidate.
	RunSuccess RunStatus = "success"
	// RunFailed: the retry budget was exhausted without a passing verdict.
	RunFailed RunStatus = "failed"
	// RunError: no valid attempt ever completed (source missing, or every
	// attempt failed at the transport level).
	RunError RunStatus = "error"
)

// RunResult is the aggregated outcome of one run.
type RunResult struct {
	Status       RunStatus
	Artifact     string
	VerdictText  string
	AttemptsUsed int
	InputRef     string
}

// Aggregate reconstructs the caller-facing result from a run history.
// It keeps the most recent StepResult per stage name, so the final artifact
// is the last extraction output and the final verdict the last validation
// output. Aggregate is a pure function: calling it twice on the same
// history yields identical results.
func Aggregate(history []StepResult, terminal State, attempts int, inputRef string) *RunResult {
	latest := make(map[string]StepResult)
	anyOK := false
	for _, step := range history {
		latest[step.Stage] = step
		if step.Status == StatusOK {
			anyOK = true
		}
	}

	result := &RunResult{
		AttemptsUsed: attempts,
		InputRef:     inputRef,
	}
	if extraction, ok := latest[StageExtraction]; ok {
		result.Artifact = extraction.Content
	}
	if validation, ok := latest[StageValidation]; ok {
		result.VerdictText = validation.Content
	}

	switch {
	case !anyOK:
		// Nothing usable was ever produced; surface the last error text
		// as the verdict and leave the artifact empty.
		result.Status = RunError
		result.VerdictText = result.Artifact
		result.Artifact = ""
	case terminal == StateSucceeded:
		result.Status = RunSuccess
	default:
		result.Status = RunFailed
	}

	return result
}
