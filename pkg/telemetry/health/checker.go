package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Status values reported by checks and probes.
const (
	StatusOK        = "ok"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DefaultCheckTimeout bounds a single component check.
const DefaultCheckTimeout = 5 * time.Second

// CheckFunc is a function that performs a health check for a component.
// It returns nil if the component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// CheckResult represents the result of a single health check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message describes the failure of an unhealthy check.
	Message string `json:"message,omitempty"`

	// DurationMS is how long the check took in milliseconds.
	DurationMS float64 `json:"duration_ms"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	// Status is "ok" for liveness, "ready" or "degraded" for readiness.
	Status string `json:"status"`

	// Checks contains the status of individual components (for readiness)
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the health check was performed
	Timestamp time.Time `json:"timestamp"`
}

// Checker manages health checks for service components such as the record
// store and the scheduler.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	// Timeout for individual checks
	checkTimeout time.Duration
}

// ErrCheckTimeout is returned when a health check does not finish in time.
var ErrCheckTimeout = errors.New("health check timeout")

// New creates a new health checker with the specified check timeout.
// If timeout is 0, defaults to 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers a health check function for a named component.
// If a check with the same name already exists, it will be replaced.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes a health check for a named component.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// CheckLiveness reports that the process is running. It runs no component
// checks.
func (c *Checker) CheckLiveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
	}
}

// CheckReadiness runs every registered check concurrently and aggregates the
// results. Any unhealthy component makes the service degraded.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}

	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}

	return HealthStatus{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

// runCheck executes a single health check with timeout. A check that ignores
// its context is abandoned when the timeout fires.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	var err error
	select {
	case err = <-errChan:
	case <-checkCtx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{
		Status:     StatusOK,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}

// GetCheck returns the check function for a named component.
// Returns nil if the check doesn't exist.
func (c *Checker) GetCheck(name string) CheckFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.checks[name]
}

// ListChecks returns the names of all registered health checks, sorted.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// CheckCount returns the number of registered health checks.
func (c *Checker) CheckCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.checks)
}
