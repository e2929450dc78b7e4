package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	to, name string
	err      error
}

func (f *fakeSender) SendWelcomeEmail(_ context.Context, to, name string) error {
	f.to, f.name = to, name
	return f.err
}

func newTestService(sender welcomeSender) *JobService {
	logger := zerolog.Nop()
	return &JobService{logger: &logger, mailer: sender}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask("ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("NewWelcomeEmailTask: %v", err)
	}
	if task.Type() != TaskWelcome {
		t.Fatalf("type = %q", task.Type())
	}

	var p WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.To != "ada@example.com" || p.Name != "Ada" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestHandleWelcomeEmailTask(t *testing.T) {
	sender := &fakeSender{}
	task, _ := NewWelcomeEmailTask("ada@example.com", "Ada")

	if err := newTestService(sender).handleWelcomeEmailTask(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sender.to != "ada@example.com" || sender.name != "Ada" {
		t.Fatalf("sent to %q / %q", sender.to, sender.name)
	}
}

func TestHandleWelcomeEmailTaskRetriesSendFailures(t *testing.T) {
	boom := errors.New("resend unavailable")
	task, _ := NewWelcomeEmailTask("ada@example.com", "")

	err := newTestService(&fakeSender{err: boom}).handleWelcomeEmailTask(context.Background(), task)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Fatal("a delivery failure should be retried")
	}
}

func TestHandleWelcomeEmailTaskSkipsRetryOnBadPayload(t *testing.T) {
	task := asynq.NewTask(TaskWelcome, []byte("{not json"))

	err := newTestService(&fakeSender{}).handleWelcomeEmailTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
}
