package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

// TaskWelcome is the job type name stored in Redis.
const TaskWelcome = "email:welcome"

// WelcomeEmailPayload is the JSON payload of the welcome email task.
type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name,omitempty"`
}

// NewWelcomeEmailTask builds the welcome task: three retries on the default
// queue, each attempt bounded to 30 seconds.
func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:   to,
		Name: name,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding welcome email payload")
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
