package tictactoe

import "time"

// Scheduler runs a task later. The returned cancel func stops it if it has not run yet.
type Scheduler interface {
	Schedule(task func()) (cancel func())
}

// DelayScheduler runs each task once its delay has elapsed.
type DelayScheduler struct {
	Delay time.Duration
}

func (that DelayScheduler) Schedule(task func()) func() {
	timer := time.AfterFunc(that.Delay, task)

	return func() {
		timer.Stop()
	}
}
