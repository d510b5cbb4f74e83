package sessionhost

import "time"

// Host operation names reported to an Observer.
const (
	OpStart      = "start"
	OpWrite      = "write"
	OpDestroy    = "destroy"
	OpRegenerate = "regenerate"
	OpTouch      = "touch"
)

// Observer receives the outcome of every host operation.
type Observer interface {
	ObserveHostOp(op string, err error, d time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(op string, err error, d time.Duration)

// ObserveHostOp calls f.
func (f ObserverFunc) ObserveHostOp(op string, err error, d time.Duration) {
	f(op, err, d)
}

type nopObserver struct{}

func (nopObserver) ObserveHostOp(string, error, time.Duration) {}
