package evidence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriterRoundTrip(t *testing.T) {
	writer, err := NewWriter(t.TempDir(), "run1")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	run := RunRecord{
		ID:          "run1",
		Timestamp:   time.Now().UTC(),
		InputRef:    "statement.pdf",
		MaxAttempts: 3,
	}
	if err := writer.WriteRun(run); err != nil {
		t.Fatalf("write run: %v", err)
	}

	step := StepRecord{
		Index:   0,
		Stage:   "extraction",
		Status:  "ok",
		Attempt: 1,
		Content: "[]",
	}
	if err := writer.WriteStep(step); err != nil {
		t.Fatalf("write step: %v", err)
	}

	result := ResultRecord{Status: "success", AttemptsUsed: 1, VerdictText: "PASS"}
	if err := writer.WriteResult(result); err != nil {
		t.Fatalf("write result: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(writer.RunDir(), "steps", "00-extraction.json"))
	if err != nil {
		t.Fatalf("read step record: %v", err)
	}
	var readBack StepRecord
	if err := json.Unmarshal(data, &readBack); err != nil {
		t.Fatalf("unmarshal step record: %v", err)
	}
	if readBack.Stage != "extraction" || readBack.Attempt != 1 {
		t.Fatalf("unexpected step record: %+v", readBack)
	}

	if _, err := os.Stat(filepath.Join(writer.RunDir(), "run.json")); err != nil {
		t.Fatalf("run.json missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(writer.RunDir(), "result.json")); err != nil {
		t.Fatalf("result.json missing: %v", err)
	}
}

func TestWriterValidation(t *testing.T) {
	if _, err := NewWriter("", "run1"); err == nil {
		t.Fatal("expected error for empty base dir")
	}
	if _, err := NewWriter(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty run ID")
	}

	writer, err := NewWriter(t.TempDir(), "run2")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := writer.WriteStep(StepRecord{}); err == nil {
		t.Fatal("expected error for step without stage name")
	}
}
