package timer

import (
	"sync"
	"time"
)

// DefaultInterval is the period between two ticks of a running session.
const DefaultInterval = 1 * time.Second

// Scheduler runs fn repeatedly every interval until the returned cancel func is called.
// Cancel must be idempotent and must not wait for an in-flight fn to return.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// Clock supplies the timestamps written to history entries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TickerScheduler drives callbacks from a time.Ticker in its own goroutine.
type TickerScheduler struct{}

// Every starts a ticker loop; the loop exits once cancel is called.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				// cancel may race with a pending tick
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
