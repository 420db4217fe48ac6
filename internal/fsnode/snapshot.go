package fsnode

import (
	"fmt"
	"io"
	"sync"
)

// snapshotCoordinator is the process-wide readers-writers coordination from
// spec.md §4.4: any number of mutators (create/delete/move) may run in
// parallel, isolated only by the per-inode lock chains, but a snapshot
// (print) excludes them wholesale for its duration. Grounded directly in
// operations.c's global_lock/canPrint/mustStop/running_crit_cmds/state
// quartet, translated from a raw mutex + two pthread_cond_t into a
// sync.Mutex + two sync.Cond, which is the idiomatic Go equivalent (Go has
// no standalone condition-variable-without-a-lock primitive).
type snapshotCoordinator struct {
	mu             sync.Mutex
	canMutate      *sync.Cond // broadcast when printing ends
	canPrint       *sync.Cond // broadcast when the last mutator drains
	runningMutators int
	printing       bool
}

func newSnapshotCoordinator() *snapshotCoordinator {
	c := &snapshotCoordinator{}
	c.canMutate = sync.NewCond(&c.mu)
	c.canPrint = sync.NewCond(&c.mu)
	return c
}

// mutatorEnter registers the caller as an in-flight mutator, blocking while
// a snapshot is in progress. Call at the start of create/delete/move.
func (c *snapshotCoordinator) mutatorEnter() {
	c.mu.Lock()
	for c.printing {
		c.canMutate.Wait()
	}
	c.runningMutators++
	c.mu.Unlock()
}

// mutatorLeave deregisters the caller. Call via defer immediately after
// mutatorEnter, so it runs on every exit path of the mutator — success,
// failure, or panic.
func (c *snapshotCoordinator) mutatorLeave() {
	c.mu.Lock()
	c.runningMutators--
	c.canPrint.Broadcast()
	c.mu.Unlock()
}

// snapshot drains in-flight mutators, takes the printing role, runs fn with
// no per-inode locks held (none are needed: no mutator can be running, and
// the coordinator's own mutex excludes every other mutator from starting),
// then releases the role. Grounded in operations.c's
// print_tecnicofs_tree.
func (c *snapshotCoordinator) snapshot(fn func()) {
	c.mu.Lock()
	for c.runningMutators > 0 {
		c.canPrint.Wait()
	}
	c.printing = true

	fn()

	c.printing = false
	c.mu.Unlock()
	c.canMutate.Broadcast()
}

// Print writes a pre-order textual listing of the whole tree to w: one
// line per node, each line the full slash-delimited path from the root,
// directories before their children, the root itself emitted as the empty
// string. Grounded in state.c's inode_print_tree. Any write error is
// reported as IOFailure, matching spec.md §7's io error kind.
func (fs *FS) Print(w io.Writer) Status {
	var status Status
	fs.snapshot.snapshot(func() {
		status = fs.printTree(w, RootInumber, "")
	})
	return status
}

func (fs *FS) printTree(w io.Writer, inumber int, path string) Status {
	if len(path) > MaxPath {
		return IOFailure
	}
	if _, err := fmt.Fprintln(w, path); err != nil {
		return IOFailure
	}
	if fs.table.Kind(inumber) != TypeDirectory {
		return OK
	}
	for _, e := range fs.table.liveEntries(inumber) {
		childPath := path + "/" + e.name
		if status := fs.printTree(w, e.inumber, childPath); !status.Ok() {
			return status
		}
	}
	return OK
}
