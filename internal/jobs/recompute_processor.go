package jobs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"SellerLedgerSaas/api/pnl"
	"SellerLedgerSaas/internal/config"
	"SellerLedgerSaas/internal/logger"
)

// RecomputeConfig drives the nightly full-pipeline recompute.
type RecomputeConfig struct {
	Schedule   string
	TimeZone   string
	MaxRetries int
	RetryDelay time.Duration
}

func NewDefaultRecomputeConfig() *RecomputeConfig {
	return &RecomputeConfig{
		Schedule:   config.DefaultRecomputeSchedule,
		TimeZone:   config.DefaultTimeZone,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

type CircuitBreakerState int32

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	maxFailures  int32
	resetTimeout time.Duration
	failures     int32
	lastFailTime time.Time
	state        CircuitBreakerState
	mutex        sync.RWMutex
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(maxFailures int32, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// Execute runs the function with circuit breaker protection
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mutex.RLock()
	state := cb.state
	cb.mutex.RUnlock()

	if state == StateOpen {
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.mutex.Lock()
			cb.state = StateHalfOpen
			cb.mutex.Unlock()
		} else {
			return fmt.Errorf("circuit breaker is open")
		}
	}

	err := fn()

	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailTime = time.Now()
		if cb.failures >= cb.maxFailures {
			cb.state = StateOpen
		}
		return err
	}

	cb.failures = 0
	cb.state = StateClosed
	return nil
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			audit(fmt.Sprintf("Retrying after %v (attempt %d/%d)", delay, attempt, maxRetries))
			time.Sleep(delay)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		audit(fmt.Sprintf("Attempt %d failed: %v", attempt+1, lastErr))
	}

	return fmt.Errorf("failed after %d attempts: %v", maxRetries+1, lastErr)
}

func audit(msg string) {
	logger.Audit(msg)
}

// RunRecomputeScheduler schedules the nightly full recompute of the P&L
// tables over all staged data. Staged uploads accumulate during the day;
// the nightly run folds in whatever landed since the last manual trigger.
func RunRecomputeScheduler(cfg *RecomputeConfig, db *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultRecomputeSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone for recompute scheduler: %v", err)
	}

	dbCircuitBreaker := NewCircuitBreaker(3, 60*time.Second)

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		audit("Nightly P&L recompute starting")
		err := RetryWithBackoff(cfg.MaxRetries, cfg.RetryDelay, func() error {
			return dbCircuitBreaker.Execute(func() error {
				return RunRecomputeOnce(context.Background(), db)
			})
		})
		if err != nil {
			audit(fmt.Sprintf("Nightly P&L recompute failed: %v", err))
			return
		}
		audit("Nightly P&L recompute finished")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule recompute cron job: %v", err)
	}
	c.Start()
	return nil
}

// RunRecomputeOnce executes one full recompute without scheduling. All
// platforms, all shops, unbounded date window.
func RunRecomputeOnce(ctx context.Context, db *pgxpool.Pool) error {
	sum, err := pnl.RunForConfig(ctx, db, pnl.PipelineConfig{})
	if errors.Is(err, pnl.ErrNoData) {
		audit("Recompute skipped, no staged order lines")
		return nil
	}
	if err != nil {
		return err
	}
	audit(fmt.Sprintf("Recompute produced %d orders and %d daily rows", sum.Orders, sum.DailyRows))
	return nil
}
