// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - tasks are enqueued (producer) with asynq.Client.
//   - a server runs workers that process those tasks (consumer) with asynq.Server.
package job

import (
	"context"

	"github.com/deppfellow/handyman-api/internal/config"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// welcomeSender delivers the welcome email. Satisfied by *email.Client.
type welcomeSender interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger
	mailer welcomeSender
}

// NewJobService creates a JobService configured to use Redis from cfg.
// Queue weights give "critical" tasks the larger worker share.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Start registers the task handlers and starts the workers. It returns once
// the worker goroutines are running.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return errors.Wrap(err, "starting asynq server")
	}

	return nil
}

// Stop waits for running tasks and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close asynq client")
	}
}

// EnqueueWelcomeEmail schedules the welcome email for a new account.
func (j *JobService) EnqueueWelcomeEmail(ctx context.Context, to, name string) error {
	task, err := NewWelcomeEmailTask(to, name)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return errors.Wrapf(err, "enqueueing %s", TaskWelcome)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("type", TaskWelcome).
		Msg("task enqueued")

	return nil
}
