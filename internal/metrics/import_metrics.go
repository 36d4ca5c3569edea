package metrics

import (
	"fmt"
	"time"
)

// ImportMetrics tracks a bulk import run.
type ImportMetrics struct {
	StartTime      time.Time                     `json:"-"`
	TotalLatencyMs float64                       `json:"totalLatencyMs"`
	FileCount      int                           `json:"fileCount"`
	ObjectCount    int                           `json:"objectCount"`
	CreatedCount   int                           `json:"createdCount"`
	ErrorCount     int                           `json:"errorCount"`
	Files          map[string]*ImportFileMetrics `json:"files"`
}

// ImportFileMetrics tracks one file of an import archive.
type ImportFileMetrics struct {
	FileName     string   `json:"fileName"`
	CreatedCount int      `json:"createdCount"`
	FailedCount  int      `json:"failedCount"`
	Errors       []string `json:"errors,omitempty"`
	LatencyMs    float64  `json:"latencyMs"`
}

func NewImportMetrics() *ImportMetrics {
	return &ImportMetrics{StartTime: time.Now(), Files: make(map[string]*ImportFileMetrics)}
}

// File returns the metrics entry of a file, creating it on first use.
func (im *ImportMetrics) File(name string) *ImportFileMetrics {
	f, ok := im.Files[name]
	if !ok {
		f = &ImportFileMetrics{FileName: name}
		im.Files[name] = f
		im.FileCount++
	}
	return f
}

// Finalize totals the per-file counters and stops the timer.
func (im *ImportMetrics) Finalize() {
	im.ObjectCount, im.CreatedCount, im.ErrorCount = 0, 0, 0
	for _, f := range im.Files {
		im.CreatedCount += f.CreatedCount
		im.ErrorCount += f.FailedCount
		im.ObjectCount += f.CreatedCount + f.FailedCount
	}
	im.TotalLatencyMs = float64(time.Since(im.StartTime).Microseconds()) / 1000.0
}

// GetSummary returns a human-readable summary of the import.
func (im *ImportMetrics) GetSummary() string {
	successRate := 0.0
	if im.ObjectCount > 0 {
		successRate = float64(im.CreatedCount) / float64(im.ObjectCount) * 100
	}
	summary := fmt.Sprintf("Import Summary: %d files, %d objects (%.2f%% created), Duration: %.2f ms",
		im.FileCount, im.ObjectCount, successRate, im.TotalLatencyMs)
	for name, f := range im.Files {
		summary += fmt.Sprintf("\n  %s: %d created, %d failed", name, f.CreatedCount, f.FailedCount)
	}
	return summary
}
