package config

// Executor schedules connection work on behalf of a server. It is the
// snapshot's opaque I/O execution handle; the connection-lifecycle
// manager submits each accepted connection to it.
type Executor interface {
	// Go schedules fn for execution. It must not block the caller.
	Go(fn func())
}

type goroutineExecutor struct{}

func (goroutineExecutor) Go(fn func()) { go fn() }

// GoroutineExecutor returns an Executor that runs each task on its own
// goroutine.
func GoroutineExecutor() Executor {
	return goroutineExecutor{}
}
