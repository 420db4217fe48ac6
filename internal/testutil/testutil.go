// Package testutil holds small test-only helpers shared across TecnicoFS's
// packages, carried over from the teacher's internal/testutil (log.go,
// verbose.go) and narrowed to what this domain actually needs: a
// microsecond log format for test output and a fresh socket path per test,
// replacing the teacher's loopback-filesystem-specific Utimens helper
// (helpers.go), which has no analogue here — TecnicoFS has no timestamps.
package testutil

import (
	"log"
	"os"
	"path/filepath"
	"testing"
)

func init() {
	// For tests the date is irrelevant, but microseconds are, same as the
	// teacher's internal/testutil/log.go.
	log.SetFlags(log.Lmicroseconds)
}

// Verbose reports whether tests were run with DEBUG=1, mirroring the
// teacher's VerboseTest (internal/testutil/verbose.go).
func Verbose() bool {
	return os.Getenv("DEBUG") == "1"
}

// SocketPath returns a fresh Unix datagram socket path under the test's
// temporary directory, for tests that bring up an internal/server instance.
func SocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tfs.sock")
}
