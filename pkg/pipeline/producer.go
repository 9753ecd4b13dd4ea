package pipeline

import (
	"context"
	"strings"
	"text/template"

	"github.com/zen-systems/ledgerloop/pkg/adapter"
)

var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Extract all transactions from the bank statement at {{.InputRef}}.

Statement text:
---
{{.SourceText}}
---
{{if .Feedback}}
The previous extraction failed verification with this feedback:
{{.Feedback}}

Address every issue named in the feedback, then re-extract the statement
text carefully: double-check transaction parsing, formatting, and that all
required fields are present.
{{end}}
Return a JSON object of the form {"transactions": [...]} where each
transaction has:
- date: transaction date in YYYY-MM-DD format
- memo: the transaction description
- amount: a number, negative for debits and positive for credits

Capture every transaction in the statement. Return only the JSON.`))

// ProducerStage generates a candidate transaction list from the source
// material, optionally steered by feedback from a failed verification.
type ProducerStage struct {
	adapter adapter.Adapter
	model   string
}

// NewProducerStage creates the extraction stage.
func NewProducerStage(a adapter.Adapter, model string) *ProducerStage {
	return &ProducerStage{adapter: a, model: model}
}

// Name returns the stage identifier.
func (s *ProducerStage) Name() string {
	return StageExtraction
}

// Produce runs one extraction attempt. Adapter failures are captured as
// error-status results rather than returned; the runner treats them as
// consumed attempts.
func (s *ProducerStage) Produce(ctx context.Context, run *RunContext, feedback string) StepResult {
	prompt, err := renderPrompt(extractionPromptTmpl, map[string]string{
		"InputRef":   run.InputRef,
		"SourceText": run.SourceText,
		"Feedback":   feedback,
	})
	if err != nil {
		return StepResult{Stage: s.Name(), Status: StatusError, Content: err.Error()}
	}

	art, err := s.adapter.Generate(ctx, s.model, prompt)
	if err != nil {
		return StepResult{Stage: s.Name(), Status: StatusError, Content: err.Error()}
	}

	if feedback != "" {
		art = art.WithMetadata("reprocessed", "true")
	}
	return StepResult{
		Stage:    s.Name(),
		Status:   StatusOK,
		Content:  art.Content,
		Artifact: art,
	}
}

func renderPrompt(tmpl *template.Template, data map[string]string) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
