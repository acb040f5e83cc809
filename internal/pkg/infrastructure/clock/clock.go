package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a clock reading UTC wall time.
func System() Clock {
	return systemClock{}
}

// Fixed always returns t. It is meant for tests and replays.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}
