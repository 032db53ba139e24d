package protocol

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
)

// TaskStatus represents the state of a task
type TaskStatus string

const (
	TaskStatusIdle       TaskStatus = "idle"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ChunkTask represents one line-aligned byte range assigned to a worker
type ChunkTask struct {
	StartTime   time.Time               `json:"start_time"`
	CompletedAt time.Time               `json:"completed_at,omitempty"`
	ID          string                  `json:"id"`
	RunID       string                  `json:"run_id"`
	Status      TaskStatus              `json:"status"`
	Error       string                  `json:"error,omitempty"`
	Range       stationreduce.ByteRange `json:"range"`
	Index       int                     `json:"index"`
	Records     uint64                  `json:"records"`
	Skipped     int                     `json:"skipped"`
}

// NewChunkTasks builds one idle task per planned range
func NewChunkTasks(runID string, ranges []stationreduce.ByteRange) []*ChunkTask {
	tasks := make([]*ChunkTask, len(ranges))
	for i, r := range ranges {
		tasks[i] = &ChunkTask{
			ID:     uuid.New().String(),
			RunID:  runID,
			Status: TaskStatusIdle,
			Range:  r,
			Index:  i,
		}
	}

	return tasks
}

// Len returns the number of bytes the task covers
func (t *ChunkTask) Len() int64 {
	return t.Range.Len()
}

// Start marks the task as in progress
func (t *ChunkTask) Start() {
	t.Status = TaskStatusInProgress
	t.StartTime = time.Now()
}

// Complete marks the task as done and records its counters
func (t *ChunkTask) Complete(records uint64, skipped int) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = time.Now()
	t.Records = records
	t.Skipped = skipped
}

// Fail marks the task as failed
func (t *ChunkTask) Fail(err error) {
	t.Status = TaskStatusFailed
	t.CompletedAt = time.Now()
	t.Error = err.Error()
}

// Duration returns how long the task ran, or zero if it has not finished
func (t *ChunkTask) Duration() time.Duration {
	if t.CompletedAt.IsZero() {
		return 0
	}
	return t.CompletedAt.Sub(t.StartTime)
}

func (t *ChunkTask) String() string {
	return fmt.Sprintf("chunk %d %s", t.Index, t.Range)
}
