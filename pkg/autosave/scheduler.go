package autosave

import "time"

// Handle is a cancellable scheduled task. Cancel reports whether the task was
// stopped before it fired.
type Handle interface {
	Cancel() bool
}

// Scheduler produces scheduled tasks. The controller keeps at most one handle
// pending at a time; swapping in a test scheduler makes debounce behaviour
// observable without sleeping.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// timerScheduler is the production scheduler backed by time.AfterFunc.
type timerScheduler struct{}

// NewTimerScheduler returns the default Scheduler.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{timer: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.timer.Stop()
}
