package queue

import (
	"context"
	"sync"
	"time"

	"github.com/Payphone-Digital/contacts-api/pkg/mail"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Dispatcher hands confirmation emails off for delivery outside the request.
type Dispatcher interface {
	EnqueueConfirmation(ctx context.Context, c mail.Confirmation) error
	Start() error
	Shutdown()
}

type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// Queue is a Redis backed dispatcher. The worker runs in process.
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewQueue(cfg Config, sender mail.Sender, logger *zap.Logger) *Queue {
	opt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{"default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Warn("Mail task failed",
				zap.String("type", task.Type()),
				zap.Error(err),
			)
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeEmailConfirm, NewConfirmEmailHandler(sender, logger))

	return &Queue{
		client: asynq.NewClient(opt),
		server: server,
		mux:    mux,
		logger: logger,
	}
}

func (q *Queue) EnqueueConfirmation(ctx context.Context, c mail.Confirmation) error {
	task, err := NewConfirmEmailTask(c)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	q.logger.Debug("Confirmation email enqueued",
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
	)
	return nil
}

// Start runs the worker in the background.
func (q *Queue) Start() error {
	return q.server.Start(q.mux)
}

func (q *Queue) Shutdown() {
	q.server.Shutdown()
	if err := q.client.Close(); err != nil {
		q.logger.Warn("Failed to close queue client", zap.Error(err))
	}
}

// Direct sends each email from its own goroutine. It is used when the queue
// is disabled or Redis is unavailable.
type Direct struct {
	sender  mail.Sender
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDirect(sender mail.Sender, logger *zap.Logger) *Direct {
	return &Direct{sender: sender, logger: logger, timeout: 30 * time.Second}
}

func (d *Direct) EnqueueConfirmation(ctx context.Context, c mail.Confirmation) error {
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		if err := d.sender.SendConfirmation(ctx, c); err != nil {
			d.logger.Warn("Confirmation email not delivered",
				zap.String("to", c.To),
				zap.Error(err),
			)
		}
	}()
	return nil
}

func (d *Direct) Start() error { return nil }

// Shutdown waits for in-flight sends.
func (d *Direct) Shutdown() {
	d.wg.Wait()
}
