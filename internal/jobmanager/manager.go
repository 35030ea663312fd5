// Package jobmanager owns the live job table, the bounded completed-job
// history, and the background tasks that drive each job through its
// Processor. It is the spec's Job Manager (§4.2).
package jobmanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/analyzer-mcp/internal/job"
)

// DefaultMaxHistory is the default History ring capacity.
const DefaultMaxHistory = 100

// Stats is the §4.2 aggregate view.
type Stats struct {
	Total    int                  `json:"total"`
	ByStatus map[job.Status]int   `json:"by_status"`
	ByKind   map[job.Kind]int     `json:"by_kind"`
}

// Manager admits new jobs, runs them concurrently on background goroutines,
// and exposes read operations over the live Job Table.
type Manager struct {
	factory *job.Factory
	logger  arbor.ILogger
	limiter *rate.Limiter // nil disables admission rate limiting

	mu      sync.RWMutex
	table   map[string]*job.Job
	history *ring
	active  map[string]context.CancelFunc

	wg sync.WaitGroup
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithMaxHistory overrides the default History ring capacity.
func WithMaxHistory(n int) Option {
	return func(m *Manager) { m.history = newRing(n) }
}

// WithRateLimit bounds submission admission to r jobs/sec with the given
// burst. Submit never blocks on this limiter — an over-limit submission is
// rejected immediately with ErrRateLimited, matching spec §5's "admission
// does not block."
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(m *Manager) { m.limiter = rate.NewLimiter(r, burst) }
}

// New constructs a Manager around factory, ready to accept submissions.
func New(factory *job.Factory, logger arbor.ILogger, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		logger:  logger,
		table:   make(map[string]*job.Job),
		history: newRing(DefaultMaxHistory),
		active:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ErrRateLimited is returned by Submit when an optional admission limiter
// rejects the submission.
var ErrRateLimited = fmt.Errorf("submission rejected: rate limit exceeded")

// Submit constructs a Job via the Factory, registers it in the Job Table,
// and spawns its background task. It never blocks on analyzer work.
func (m *Manager) Submit(kind job.Kind, code string) (*job.Job, error) {
	if m.limiter != nil && !m.limiter.Allow() {
		return nil, ErrRateLimited
	}

	j, err := m.factory.Create(kind, code)
	if err != nil {
		return nil, err
	}

	taskCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.table[j.ID()] = j
	m.active[j.ID()] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(taskCtx, cancel, j)

	m.logger.Info().
		Str("job_id", j.ID()).
		Str("job_kind", string(j.Kind())).
		Msg("Job submitted")

	return j, nil
}

// run drives j through its Processor and enforces the terminal-state safety
// net. It is the single goroutine owning j's mutation after Submit returns.
func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, j *job.Job) {
	defer m.wg.Done()
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("job_id", j.ID()).
				Msg(fmt.Sprintf("Processor panicked: %v", r))
			_ = j.Fail(fmt.Sprintf("processor panicked: %v", r))
		}
		m.finalize(j)
	}()

	processor, err := m.factory.Processor(j.Kind())
	if err != nil {
		_ = j.Fail(fmt.Sprintf("no processor registered for kind %q", j.Kind()))
		return
	}

	processor.Process(ctx, j)

	// Safety net: a misbehaving Processor left the job non-terminal.
	if !j.Status().Terminal() {
		m.logger.Error().
			Str("job_id", j.ID()).
			Msg("Processor returned without reaching a terminal status")
		_ = j.Fail("processor did not finalize")
	}
}

// finalize appends a terminal job to History and removes its Active-Task entry.
func (m *Manager) finalize(j *job.Job) {
	if !j.Status().Terminal() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history.push(j)
	delete(m.active, j.ID())
}

// Get returns the job with id, or nil if not present.
func (m *Manager) Get(id string) *job.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table[id]
}

// List returns a Summary per job in the table, optionally filtered by kind.
func (m *Manager) List(kind *job.Kind) []job.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]job.Summary, 0, len(m.table))
	for _, j := range m.table {
		if kind != nil && j.Kind() != *kind {
			continue
		}
		out = append(out, job.Summarize(j))
	}
	return out
}

// Stats computes the aggregate view from the live Job Table at the instant
// of the call; it is never cached.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		ByStatus: make(map[job.Status]int),
		ByKind:   make(map[job.Kind]int),
	}
	for _, j := range m.table {
		s.Total++
		s.ByStatus[j.Status()]++
		s.ByKind[j.Kind()]++
	}
	return s
}

// HistoryLen reports the current History ring length, for tests.
func (m *Manager) HistoryLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.len()
}

// ActiveCount reports the number of non-terminal jobs with a live task, for tests.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Wait blocks until every background task started by Submit has returned.
// Intended for tests and graceful shutdown, not part of the request path.
func (m *Manager) Wait() {
	m.wg.Wait()
}
