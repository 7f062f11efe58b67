package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup pre-populates the dashboard chart cache.
	TaskReportsWarmup = "reports:warmup"
)

// ReportsWarmupPayload narrows the warmup to specific periods. An empty
// list warms every period.
type ReportsWarmupPayload struct {
	Periods []string `json:"periods,omitempty"`
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}
