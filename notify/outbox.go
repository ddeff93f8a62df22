package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Adi-Narayan/Hashira/config"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sendTimeout = 30 * time.Second
	maxBackoff  = time.Hour

	promoteSpec = "@every 15s"
)

// Outbox drains a Queue on a bounded worker pool. A failed send is deferred
// with exponential backoff; after MaxAttempts it is logged as a dead letter
// and dropped.
type Outbox struct {
	queue       Queue
	mailer      Mailer
	pool        *ants.Pool
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time

	wg sync.WaitGroup
}

func NewOutbox(queue Queue, mailer Mailer, cfg config.OutboxConfig) (*Outbox, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox pool: %w", err)
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 30 * time.Second
	}
	return &Outbox{
		queue:       queue,
		mailer:      mailer,
		pool:        pool,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		now:         time.Now,
	}, nil
}

func (o *Outbox) Enqueue(ctx context.Context, msg Message) error {
	env := Envelope{
		ID:         uuid.NewString(),
		Message:    msg,
		EnqueuedAt: o.now().UTC(),
	}
	err := o.queue.Push(ctx, env)
	if errors.Is(err, ErrQueueFull) {
		// Parked envelopes are moved back by the promotion job.
		err = o.queue.Defer(ctx, env, env.EnqueuedAt)
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %s email: %w", msg.Kind, err)
	}
	return nil
}

// Run pops envelopes until ctx is done or the queue is closed.
func (o *Outbox) Run(ctx context.Context) {
	for {
		env, err := o.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return
			}
			zap.L().Error("outbox pop failed", zap.String("namespace", "notify"), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		o.wg.Add(1)
		err = o.pool.Submit(func() {
			defer o.wg.Done()
			o.deliver(ctx, env)
		})
		if err != nil {
			o.wg.Done()
			zap.L().Error("outbox submit failed", zap.String("namespace", "notify"), zap.Error(err))
			o.retry(context.WithoutCancel(ctx), env, err)
		}
	}
}

func (o *Outbox) deliver(ctx context.Context, env Envelope) {
	// In-flight sends finish even while the application is shutting down.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	err := o.mailer.Send(sendCtx, env.Message)
	if err == nil {
		zap.L().Info("email sent",
			zap.String("namespace", "notify"),
			zap.String("id", env.ID),
			zap.String("kind", string(env.Message.Kind)),
			zap.String("to", env.Message.To),
			zap.Int("attempt", env.Attempts+1))
		return
	}
	o.retry(sendCtx, env, err)
}

func (o *Outbox) retry(ctx context.Context, env Envelope, cause error) {
	env.Attempts++
	env.LastError = cause.Error()
	if env.Attempts >= o.maxAttempts {
		zap.L().Error("email dead-lettered",
			zap.String("namespace", "notify"),
			zap.String("id", env.ID),
			zap.String("kind", string(env.Message.Kind)),
			zap.String("to", env.Message.To),
			zap.Int("attempts", env.Attempts),
			zap.Error(cause))
		return
	}

	delay := o.Backoff(env.Attempts)
	if err := o.queue.Defer(ctx, env, o.now().Add(delay)); err != nil {
		zap.L().Error("failed to defer email",
			zap.String("namespace", "notify"),
			zap.String("id", env.ID),
			zap.Error(err))
		return
	}
	zap.L().Warn("email send failed, retry scheduled",
		zap.String("namespace", "notify"),
		zap.String("id", env.ID),
		zap.Int("attempt", env.Attempts),
		zap.Duration("delay", delay),
		zap.Error(cause))
}

// Backoff returns the delay before retry number attempt (1-based).
func (o *Outbox) Backoff(attempt int) time.Duration {
	delay := o.backoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func (o *Outbox) PromoteDue(ctx context.Context) {
	n, err := o.queue.PromoteDue(ctx, o.now())
	if errors.Is(err, ErrQueueFull) {
		zap.L().Debug("ready queue full, promotion resumes next run", zap.String("namespace", "notify"), zap.Int("count", n))
		return
	}
	if err != nil {
		zap.L().Error("failed to promote deferred emails", zap.String("namespace", "notify"), zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Debug("promoted deferred emails", zap.String("namespace", "notify"), zap.Int("count", n))
	}
}

// RegisterJobs adds the retry promotion job to sched.
func (o *Outbox) RegisterJobs(sched *cron.Cron) error {
	_, err := sched.AddFunc(promoteSpec, func() {
		o.PromoteDue(context.Background())
	})
	return err
}

// Close waits for in-flight sends, then releases the pool and the queue.
func (o *Outbox) Close() error {
	o.wg.Wait()
	o.pool.Release()
	return o.queue.Close()
}
