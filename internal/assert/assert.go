// Package assert holds the handful of invariant checks used throughout the
// engine. Violations here are programmer errors, not recoverable runtime
// conditions, so they panic rather than return an error.
package assert

import "fmt"

// True panics with msg if cond is false.
func True(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintf(msg, args...))
}
