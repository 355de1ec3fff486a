// Package jobs defines the asynq task types and the background worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDREWarmup pre-builds and caches DRE reports for active companies.
	TaskDREWarmup = "dre:warmup"
)

// DREWarmupPayload scopes a warmup run. An empty CompanyIDs list means
// every active company; an empty Years list means the current year.
type DREWarmupPayload struct {
	RequestID  string  `json:"request_id,omitempty"`
	CompanyIDs []int64 `json:"company_ids,omitempty"`
	Years      []int   `json:"years,omitempty"`
}

// NewDREWarmupTask constructs a warmup task.
func NewDREWarmupTask(payload DREWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDREWarmup, data), nil
}
