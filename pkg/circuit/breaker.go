package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State of a breaker.
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast until the cooldown ends
	StateHalfOpen              // one trial call at a time
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without calling the provider while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	Threshold         int           // consecutive failures that open the breaker
	Cooldown          time.Duration // time spent open before a trial call is let through
	HalfOpenSuccesses int           // successful trial calls needed to close again
}

func DefaultConfig() Config {
	return Config{
		Threshold:         5,
		Cooldown:          30 * time.Second,
		HalfOpenSuccesses: 1,
	}
}

// Breaker guards calls to an outbound provider such as the SMTP server or
// the image store. A nil *Breaker passes every call through.
type Breaker struct {
	mu        sync.Mutex
	name      string
	cfg       Config
	state     State
	failures  int
	successes int
	probing   bool
	openedAt  time.Time
	now       func() time.Time
	logger    *zap.Logger
}

func NewBreaker(name string, cfg Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.HalfOpenSuccesses <= 0 {
		cfg.HalfOpenSuccesses = 1
	}
	return &Breaker{
		name:   name,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// Do runs fn unless the breaker is open. Cancellation by the caller is not
// counted against the provider.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if b == nil {
		return fn(ctx)
	}
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	if errors.Is(err, context.Canceled) {
		b.release()
		return err
	}
	b.record(err)
	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

// release frees the trial slot of a call whose outcome says nothing about
// the provider.
func (b *Breaker) release() {
	b.mu.Lock()
	b.probing = false
	b.mu.Unlock()
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false

	if err != nil {
		b.successes = 0
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.cfg.Threshold {
			b.openedAt = b.now()
			b.transition(StateOpen)
		}
		return
	}

	b.failures = 0
	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.cfg.HalfOpenSuccesses {
			b.transition(StateClosed)
		}
	}
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if to == StateClosed {
		b.failures = 0
		b.successes = 0
	}

	b.logger.Warn("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}
