package core

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/ecli/internal/provider"
)

// ErrBusy is returned when a job is submitted while another is in flight.
var ErrBusy = errors.New("a provider invocation is already running")

// Job is the in-flight invocation.
type Job struct {
	ID       string
	Provider provider.ID
	Started  time.Time
}

type Stats struct {
	Completed    int
	Failed       int
	LastDuration time.Duration
}

// RunState enforces at most one invocation at a time and keeps counters.
type RunState struct {
	mu      sync.RWMutex
	current *Job
	stats   Stats
}

func NewRunState() *RunState {
	return &RunState{}
}

// Begin claims the single execution slot.
func (rs *RunState) Begin(jobID string, id provider.ID) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.current != nil {
		return ErrBusy
	}
	rs.current = &Job{ID: jobID, Provider: id, Started: time.Now()}
	return nil
}

// Abort releases the slot without counting a completion.
func (rs *RunState) Abort(jobID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.current != nil && rs.current.ID == jobID {
		rs.current = nil
	}
}

// Finish releases the slot and records the outcome. It returns how long the
// job ran, or zero if jobID is not the current job.
func (rs *RunState) Finish(jobID string, success bool) time.Duration {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.current == nil || rs.current.ID != jobID {
		return 0
	}
	elapsed := time.Since(rs.current.Started)
	rs.current = nil
	rs.stats.LastDuration = elapsed
	if success {
		rs.stats.Completed++
	} else {
		rs.stats.Failed++
	}
	return elapsed
}

func (rs *RunState) Current() (Job, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if rs.current == nil {
		return Job{}, false
	}
	return *rs.current, true
}

func (rs *RunState) Busy() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.current != nil
}

func (rs *RunState) Stats() Stats {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.stats
}
