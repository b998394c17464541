package domain

import "github.com/jonboulle/clockwork"

// clock stamps ProcessedAt, pest validity windows, and alert expiries.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the assessment time source and returns a function
// that restores the previous one. Tests and fixture generators freeze
// time with a fake clock and defer the restore.
func SetClock(c clockwork.Clock) (restore func()) {
	prev := clock
	clock = c
	return func() { clock = prev }
}
