package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/zen-systems/ledgerloop/pkg/statement"
)

// Verdict is the parsed pass/fail judgment from a validation step.
type Verdict struct {
	Passed bool
	Reason string
}

// verdictEnvelope matches the structured verdict the validation prompt
// asks for. Free-text verdicts are accepted as well.
type verdictEnvelope struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ParseVerdict extracts a Verdict from raw validation output.
//
// The pass check is a substring match: the trimmed, case-folded text passes
// when it contains "PASS". An empty or unparseable response fails. Callers
// should be aware that a failure sentence quoting the literal token PASS
// ("does not PASS inspection") is misread as success; verifiers needing
// strict semantics must emit the fixed status token in the structured
// envelope and nothing else.
func ParseVerdict(content string) Verdict {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Verdict{Passed: false, Reason: "empty validation response"}
	}

	reason := trimmed
	raw := statement.StripCodeFence(trimmed)
	var envelope verdictEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && envelope.Reason != "" {
		reason = envelope.Reason
	}

	normalized := strings.ToUpper(trimmed)
	return Verdict{
		Passed: strings.Contains(normalized, "PASS"),
		Reason: reason,
	}
}
