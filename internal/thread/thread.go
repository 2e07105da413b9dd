// Package thread keeps window and GL calls on the main OS thread.
// See: https://github.com/golang/go/wiki/LockOSThread
package thread

import "github.com/faiface/mainthread"

// Run enables Call and CallErr and runs f in a separate goroutine
// while the main thread serves calls. It must be called from main.
func Run(f func()) {
	mainthread.Run(f)
}

// Call runs f on the main thread and waits for it.
func Call(f func()) {
	mainthread.Call(f)
}

// CallErr runs f on the main thread and returns its error.
func CallErr(f func() error) error {
	return mainthread.CallErr(f)
}
