package processor

import "sync"

// stopFlag is the batch's cancellation signal together with its status.
// Everything is guarded by one mutex so that a Stop is visible at the very
// next checkpoint.
type stopFlag struct {
	mu      sync.Mutex
	stopped bool
	status  Status
}

func (f *stopFlag) set() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *stopFlag) isSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *stopFlag) setStatus(s Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func (f *stopFlag) getStatus() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}
