package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zen-systems/ledgerloop/pkg/evidence"
	"github.com/zen-systems/ledgerloop/pkg/source"
	"github.com/zen-systems/ledgerloop/pkg/statement"
)

// State is the loop controller's run state.
type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// RunOptions configures a Runner.
type RunOptions struct {
	// EvidenceDir, when set, receives a JSON evidence bundle per run.
	EvidenceDir string
	// Logger receives progress messages. Nil disables logging.
	Logger func(format string, args ...any)
}

// Stats describes a runner's configuration.
type Stats struct {
	Stages []string
}

// Runner drives the produce -> verify -> reprocess loop for one input at a
// time. It owns the run-scoped history; stages never mutate it. A Runner is
// safe to reuse across runs but each Process call builds independent state.
type Runner struct {
	producer *ProducerStage
	verifier *VerifierStage
	reader   source.Reader
	opts     RunOptions
}

// NewRunner creates a runner over the given stages and source reader.
func NewRunner(producer *ProducerStage, verifier *VerifierStage, reader source.Reader, opts RunOptions) *Runner {
	return &Runner{
		producer: producer,
		verifier: verifier,
		reader:   reader,
		opts:     opts,
	}
}

// Process runs the bounded-retry extraction/verification loop against
// inputRef. maxAttempts is inclusive of the first attempt; with
// maxAttempts = 1 the first verdict is final.
//
// Verification failures and adapter errors are normal outcomes reported in
// the RunResult, never returned as errors. The returned error covers only
// invalid arguments and evidence archival failures.
func (r *Runner) Process(ctx context.Context, inputRef string, maxAttempts int) (*RunResult, error) {
	if maxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", maxAttempts)
	}

	sourceText, err := r.reader.Read(inputRef)
	if err != nil {
		// No attempt can succeed without the source material.
		r.logf("source read failed: %v", err)
		result := &RunResult{
			Status:       RunError,
			VerdictText:  err.Error(),
			AttemptsUsed: 0,
			InputRef:     inputRef,
		}
		if archiveErr := r.archive(inputRef, maxAttempts, nil, result); archiveErr != nil {
			return nil, archiveErr
		}
		return result, nil
	}

	run := newRunContext(inputRef, sourceText, maxAttempts)
	state := StateRunning
	feedback := ""
	attemptsUsed := 0

	for attempt := 1; attempt <= maxAttempts && state == StateRunning; {
		attemptsUsed = attempt
		r.logf("attempt %d/%d: extracting", attempt, maxAttempts)

		candidate := r.producer.Produce(ctx, run, feedback)
		candidate.Attempt = attempt
		run.append(candidate)

		if candidate.Status == StatusError {
			// Failed attempt: no verification, error text becomes
			// the next attempt's feedback.
			r.logf("attempt %d: extraction error: %s", attempt, candidate.Content)
			feedback = candidate.Content
			attempt++
			continue
		}

		r.logf("attempt %d/%d: validating", attempt, maxAttempts)
		verification := r.verifier.Verify(ctx, run, candidate)
		verification.Attempt = attempt
		run.append(verification)

		verdict := ParseVerdict(verification.Content)
		if verdict.Passed {
			r.logf("attempt %d: validation passed", attempt)
			state = StateSucceeded
			break
		}

		r.logf("attempt %d: validation failed: %s", attempt, verdict.Reason)
		feedback = verdict.Reason
		attempt++
		if attempt > maxAttempts {
			state = StateFailed
		}
	}

	// The error-as-attempt path can exhaust the budget with the state
	// still running.
	if state == StateRunning {
		state = StateFailed
	}

	result := Aggregate(run.History(), state, attemptsUsed, inputRef)
	if err := r.archive(inputRef, maxAttempts, run.History(), result); err != nil {
		return nil, err
	}
	return result, nil
}

// QuickCheck runs only the format validator against an already-produced
// candidate, skipping the producer and the source comparison entirely.
func QuickCheck(candidate string) *RunResult {
	passed, reason := statement.ValidateFormat(candidate)
	status := RunFailed
	if passed {
		status = RunSuccess
	}
	return &RunResult{
		Status:       status,
		Artifact:     candidate,
		VerdictText:  reason,
		AttemptsUsed: 1,
	}
}

// Stats reports the runner's stage configuration.
func (r *Runner) Stats() Stats {
	return Stats{
		Stages: []string{r.producer.Name(), r.verifier.Name()},
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger(format, args...)
	}
}

func (r *Runner) archive(inputRef string, maxAttempts int, history []StepResult, result *RunResult) error {
	if r.opts.EvidenceDir == "" {
		return nil
	}

	runID := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	writer, err := evidence.NewWriter(r.opts.EvidenceDir, runID)
	if err != nil {
		return err
	}

	record := evidence.RunRecord{
		ID:          runID,
		Timestamp:   time.Now().UTC(),
		InputRef:    inputRef,
		MaxAttempts: maxAttempts,
	}
	if err := writer.WriteRun(record); err != nil {
		return err
	}

	for i, step := range history {
		stepRecord := evidence.StepRecord{
			Index:   i,
			Stage:   step.Stage,
			Status:  string(step.Status),
			Attempt: step.Attempt,
			Content: truncateForEvidence(step.Content, 4096),
		}
		if stepRecord.Content != step.Content {
			stepRecord.ContentHash = hashString(step.Content)
		}
		if err := writer.WriteStep(stepRecord); err != nil {
			return err
		}
	}

	resultRecord := evidence.ResultRecord{
		Status:       string(result.Status),
		AttemptsUsed: result.AttemptsUsed,
		VerdictText:  truncateForEvidence(result.VerdictText, 4096),
	}
	if result.Artifact != "" {
		resultRecord.ArtifactHash = hashString(result.Artifact)
	}
	if err := writer.WriteResult(resultRecord); err != nil {
		return err
	}

	r.logf("evidence written to %s", writer.RunDir())
	return nil
}

func hashString(value string) string {
	h := sha256.Sum256([]byte(value))
	return hex.EncodeToString(h[:])
}

func truncateForEvidence(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit]
}
