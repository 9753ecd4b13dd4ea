package pipeline

import (
	"context"
	"text/template"

	"github.com/zen-systems/ledgerloop/pkg/adapter"
)

var validationPromptTmpl = template.Must(template.New("validation").Parse(`Validate these extracted transactions against the original bank statement at {{.InputRef}}.

Extracted transactions:
---
{{.Candidate}}
---

Original statement text:
---
{{.SourceText}}
---

Check that every transaction in the statement is captured, that no extra
transactions were invented, that amounts match exactly including sign, that
dates are correct YYYY-MM-DD values, and that memo text is accurate.

Return a JSON object {"status": "...", "reason": "..."} where status is
exactly PASS when every check succeeds and exactly FAIL otherwise, and
reason explains the judgment. On FAIL, name each specific discrepancy so
the extraction can be corrected.`))

// VerifierStage judges a candidate transaction list against the source
// material and emits a pass/fail verdict with a reason.
type VerifierStage struct {
	adapter adapter.Adapter
	model   string
}

// NewVerifierStage creates the validation stage.
func NewVerifierStage(a adapter.Adapter, model string) *VerifierStage {
	return &VerifierStage{adapter: a, model: model}
}

// Name returns the stage identifier.
func (s *VerifierStage) Name() string {
	return StageValidation
}

// Verify runs one validation attempt against the candidate produced in the
// same attempt. The verifier re-derives ground truth from the same source
// text the producer saw; it never trusts the candidate alone.
func (s *VerifierStage) Verify(ctx context.Context, run *RunContext, candidate StepResult) StepResult {
	prompt, err := renderPrompt(validationPromptTmpl, map[string]string{
		"InputRef":   run.InputRef,
		"SourceText": run.SourceText,
		"Candidate":  candidate.Content,
	})
	if err != nil {
		return StepResult{Stage: s.Name(), Status: StatusError, Content: err.Error()}
	}

	art, err := s.adapter.Generate(ctx, s.model, prompt)
	if err != nil {
		return StepResult{Stage: s.Name(), Status: StatusError, Content: err.Error()}
	}

	return StepResult{
		Stage:    s.Name(),
		Status:   StatusOK,
		Content:  art.Content,
		Artifact: art,
	}
}
