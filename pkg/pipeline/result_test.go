package pipeline

import (
	"reflect"
	"testing"
)

func TestAggregateMostRecentWins(t *testing.T) {
	history := []StepResult{
		{Stage: StageExtraction, Status: StatusOK, Content: "first draft", Attempt: 1},
		{Stage: StageValidation, Status: StatusOK, Content: "FAIL: incomplete", Attempt: 1},
		{Stage: StageExtraction, Status: StatusOK, Content: "second draft", Attempt: 2},
		{Stage: StageValidation, Status: StatusOK, Content: "PASS", Attempt: 2},
	}

	result := Aggregate(history, StateSucceeded, 2, "statement.pdf")
	if result.Status != RunSuccess {
		t.Fatalf("expected success, got %s", result.Status)
	}
	if result.Artifact != "second draft" {
		t.Fatalf("expected last extraction output, got %q", result.Artifact)
	}
	if result.VerdictText != "PASS" {
		t.Fatalf("expected last validation output, got %q", result.VerdictText)
	}
	if result.AttemptsUsed != 2 || result.InputRef != "statement.pdf" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	history := []StepResult{
		{Stage: StageExtraction, Status: StatusOK, Content: "draft", Attempt: 1},
		{Stage: StageValidation, Status: StatusOK, Content: "FAIL: wrong amount", Attempt: 1},
	}

	first := Aggregate(history, StateFailed, 1, "statement.pdf")
	second := Aggregate(history, StateFailed, 1, "statement.pdf")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestAggregateErrorWhenNothingProduced(t *testing.T) {
	history := []StepResult{
		{Stage: StageExtraction, Status: StatusError, Content: "connection refused", Attempt: 1},
		{Stage: StageExtraction, Status: StatusError, Content: "connection refused", Attempt: 2},
	}

	result := Aggregate(history, StateFailed, 2, "statement.pdf")
	if result.Status != RunError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if result.Artifact != "" {
		t.Fatalf("expected no artifact, got %q", result.Artifact)
	}
	if result.VerdictText != "connection refused" {
		t.Fatalf("expected error text as verdict, got %q", result.VerdictText)
	}
}

func TestAggregateFailedKeepsLastOutputs(t *testing.T) {
	history := []StepResult{
		{Stage: StageExtraction, Status: StatusOK, Content: "draft", Attempt: 1},
		{Stage: StageValidation, Status: StatusOK, Content: "FAIL: missing memo", Attempt: 1},
	}

	result := Aggregate(history, StateFailed, 1, "statement.pdf")
	if result.Status != RunFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if result.Artifact != "draft" || result.VerdictText != "FAIL: missing memo" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAggregateEmptyHistory(t *testing.T) {
	result := Aggregate(nil, StateFailed, 0, "statement.pdf")
	if result.Status != RunError {
		t.Fatalf("expected error status for empty history, got %s", result.Status)
	}
}
