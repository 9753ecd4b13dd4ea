package pipeline

import "github.com/zen-systems/ledgerloop/pkg/artifact"

// Stage names, unique within one run.
const (
	StageExtraction = "extraction"
	StageValidation = "validation"
)

// Status reports whether a stage call completed or failed at the
// transport/contract level.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// StepResult is the immutable record of one stage execution. It is created
// by the stage that ran, appended to the run history by the runner, and
// never modified afterwards.
type StepResult struct {
	Stage    string
	Content  string
	Status   Status
	Attempt  int
	Artifact *artifact.Artifact // nil when Status is StatusError
}
