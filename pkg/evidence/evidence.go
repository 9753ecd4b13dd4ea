package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord captures run-level metadata.
type RunRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	InputRef    string    `json:"input_ref"`
	InputHash   string    `json:"input_hash,omitempty"`
	MaxAttempts int       `json:"max_attempts"`
}

// StepRecord captures one stage execution within a run.
type StepRecord struct {
	Index       int    `json:"index"`
	Stage       string `json:"stage"`
	Status      string `json:"status"`
	Attempt     int    `json:"attempt"`
	Content     string `json:"content,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
}

// ResultRecord captures the terminal outcome of a run.
type ResultRecord struct {
	Status       string `json:"status"`
	AttemptsUsed int    `json:"attempts_used"`
	VerdictText  string `json:"verdict_text,omitempty"`
	ArtifactHash string `json:"artifact_hash,omitempty"`
}

// Writer writes evidence bundles to disk.
type Writer struct {
	baseDir string
	runDir  string
}

// NewWriter creates a new evidence writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "steps"), 0755); err != nil {
		return nil, err
	}

	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes run metadata to run.json.
func (w *Writer) WriteRun(record RunRecord) error {
	return writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteStep writes a step record to steps/NN-<stage>.json.
func (w *Writer) WriteStep(record StepRecord) error {
	if record.Stage == "" {
		return fmt.Errorf("stage name is required")
	}
	path := filepath.Join(w.runDir, "steps", fmt.Sprintf("%02d-%s.json", record.Index, record.Stage))
	return writeJSON(path, record)
}

// WriteResult writes the terminal outcome to result.json.
func (w *Writer) WriteResult(record ResultRecord) error {
	return writeJSON(filepath.Join(w.runDir, "result.json"), record)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
