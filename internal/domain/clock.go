package domain

import "github.com/jonboulle/clockwork"

// clock stamps Dataset.ComputedAt. Tests freeze it through SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for dataset timestamps. Pass nil to
// restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Today returns the current calendar day as a dataset key.
func Today() string {
	return clock.Now().UTC().Format(DateLayout)
}
