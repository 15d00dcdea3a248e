package tictactoe

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

// Notifier receives every state change of a controller.
// It is called with the controller locked and must not call back into it.
type Notifier interface {
	OnStateChanged(snapshot entity.Snapshot)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(snapshot entity.Snapshot)

func (that NotifierFunc) OnStateChanged(snapshot entity.Snapshot) {
	that(snapshot)
}

// MultiNotifier dispatches each change to all of its notifiers in order.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (that *MultiNotifier) OnStateChanged(snapshot entity.Snapshot) {
	for _, notifier := range that.notifiers {
		notifier.OnStateChanged(snapshot)
	}
}

type nopNotifier struct{}

func (nopNotifier) OnStateChanged(entity.Snapshot) {}
