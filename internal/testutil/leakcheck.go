// Package testutil provides testing utilities for the tunetrace application.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn goroutines,
// such as the tracker poll loop. It verifies that every goroutine started
// during the test has exited by the time the test returns.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}
