// Package progress implements the thread-safe slot connecting a worker
// executing a command with an optional foreground observer. The slot is the
// only cross-thread shared mutable resource in the engine, and its single
// correctness property is that a concurrently cleared observer is never
// invoked: the presence check and the notification happen inside the same
// critical section.
package progress

import "sync"

// Observer receives progress notifications from a running command.
// The slot holds a non-owning handle: whoever attached the observer remains
// responsible for disposing it, after detaching.
type Observer interface {
	Notify(percent int, message string)
}

// Channel is a single mutable observer slot guarded by one mutex.
// The zero value is ready to use.
type Channel struct {
	mu       sync.Mutex
	observer Observer
}

// Set installs the active observer, replacing any previous one.
func (c *Channel) Set(observer Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = observer
}

// Clear detaches the active observer. Safe to call when none is set.
func (c *Channel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = nil
}

// NotifyIfPresent forwards a progress update to the observer if one is
// attached, and reports whether a notification was delivered. The nil check
// and the invocation stay under the same lock: a concurrent Clear cannot
// land between them, so a detached observer is never invoked.
func (c *Channel) NotifyIfPresent(percent int, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.observer == nil {
		return false
	}
	c.observer.Notify(percent, message)
	return true
}

// Func returns a types-compatible progress callback bound to this channel.
// Handy for wiring a command's ProgressFunc without exposing the slot.
func (c *Channel) Func() func(percent int, message string) {
	return func(percent int, message string) {
		c.NotifyIfPresent(percent, message)
	}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(percent int, message string)

// Notify implements Observer.
func (f ObserverFunc) Notify(percent int, message string) { f(percent, message) }
