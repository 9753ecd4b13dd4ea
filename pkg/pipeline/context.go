package pipeline

// RunContext is the isolated per-run state bag. It is created at the start
// of Process, mutated only by the Runner, and discarded when the run ends.
// Concurrent runs must use independent instances; nothing in this package
// keeps process-wide mutable state.
type RunContext struct {
	InputRef    string
	SourceText  string
	MaxAttempts int

	history []StepResult
}

func newRunContext(inputRef, sourceText string, maxAttempts int) *RunContext {
	return &RunContext{
		InputRef:    inputRef,
		SourceText:  sourceText,
		MaxAttempts: maxAttempts,
	}
}

// append records a step result. History is append-only and reflects call
// order exactly; aggregation relies on that ordering.
func (c *RunContext) append(step StepResult) {
	c.history = append(c.history, step)
}

// History returns the ordered step results recorded so far.
func (c *RunContext) History() []StepResult {
	return c.history
}
