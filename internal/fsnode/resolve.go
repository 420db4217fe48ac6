package fsnode

import "strings"

// lockChain is the ticket the resolver hands back: the ordered list of
// inumbers it locked, in the mode each was locked with, plus the terminal
// inumber (FreeInode if the walk broke early). release() unlocks every
// entry exactly once, in any order for readers, and is safe to call more
// than once.
//
// This is the scoped-value translation spec.md §9 asks for: in the source,
// every operation hand-unlocks its chain on every return path. Here the
// ticket owns its own teardown, so a caller only has to `defer chain.
// release()` once, the same way the teacher's Inode.LockTree() returns an
// unlocker closure instead of asking callers to pair Lock/Unlock themselves
// (fuse/inode.go:80).
type lockChain struct {
	table   *Table
	inodes  []int
	modes   []LockMode
	done    bool
	terminal int
}

func newLockChain(t *Table) *lockChain {
	return &lockChain{table: t, terminal: FreeInode}
}

func (c *lockChain) push(inumber int, mode LockMode) {
	c.table.Lock(inumber, mode)
	c.inodes = append(c.inodes, inumber)
	c.modes = append(c.modes, mode)
}

// release unlocks every inode in the chain. Idempotent.
func (c *lockChain) release() {
	if c.done {
		return
	}
	c.done = true
	for i := len(c.inodes) - 1; i >= 0; i-- {
		c.table.Unlock(c.inodes[i], c.modes[i])
	}
}

// splitPath tokenizes an absolute, slash-delimited path into its non-empty
// components. A trailing slash is stripped first; an empty path yields no
// components (the root).
func splitPath(path string) []string {
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// splitParentChild splits an absolute path into its parent path and final
// component, mirroring operations.c's split_parent_child_from_path. A path
// with a single component has the root ("") as its parent.
func splitParentChild(path string) (parent, child string) {
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimPrefix(path, "/")
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// resolveForRead walks name from the root holding only read locks, releases
// the whole chain before returning, and reports the terminal inumber
// (FreeInode if the walk broke before the last component). Grounded in
// operations.c's lookup.
func resolveForRead(t *Table, name string) int {
	chain := newLockChain(t)
	defer chain.release()

	chain.push(RootInumber, LockRead)
	current := RootInumber

	for _, component := range splitPath(name) {
		if t.Kind(current) != TypeDirectory {
			return FreeInode
		}
		next := t.lookupChild(current, component)
		if next == FreeInode {
			return FreeInode
		}
		chain.push(next, LockRead)
		current = next
	}
	return current
}

// resolveForCommand walks name from the root, read-locking every interior
// node and locking the terminal node in terminalMode. The returned chain is
// NOT released by this function — the caller owns it and must release it
// once the mutation it protects is complete. If the walk cannot find a
// component, the terminal inumber is FreeInode but the partial chain is
// still returned for the caller to release. Grounded in operations.c's
// lookup_commands.
func resolveForCommand(t *Table, name string, terminalMode LockMode) *lockChain {
	chain := newLockChain(t)
	components := splitPath(name)

	if len(components) == 0 {
		chain.push(RootInumber, terminalMode)
		chain.terminal = RootInumber
		return chain
	}

	chain.push(RootInumber, LockRead)
	current := RootInumber

	for i, component := range components {
		if t.Kind(current) != TypeDirectory {
			chain.terminal = FreeInode
			return chain
		}
		next := t.lookupChild(current, component)
		if next == FreeInode {
			chain.terminal = FreeInode
			return chain
		}
		mode := LockRead
		if i == len(components)-1 {
			mode = terminalMode
		}
		chain.push(next, mode)
		current = next
	}
	chain.terminal = current
	return chain
}

// continueResolveForCommand resumes a command-mode walk from a node the
// caller's own chain already holds locked, rather than from the root. It
// locks only the components not yet covered, read-locking interior nodes
// and locking the final one in terminalMode, exactly like
// resolveForCommand's tail — the difference is purely where the walk
// starts.
//
// Preconditions, both guaranteed by Move's use of this helper (see
// commonPrefixLen): current is held locked by the caller (in whatever mode
// that lock happens to be — read or write, it makes no difference here
// since this call only reads current's entries, never current itself), and
// components is non-empty, so the walk always produces a freshly locked
// node for its own terminal rather than needing to re-lock current in a
// different mode.
func continueResolveForCommand(t *Table, current int, components []string, terminalMode LockMode) *lockChain {
	chain := newLockChain(t)
	if len(components) == 0 {
		panic("fsnode: continueResolveForCommand called with no remaining components")
	}
	for i, component := range components {
		if t.Kind(current) != TypeDirectory {
			chain.terminal = FreeInode
			return chain
		}
		next := t.lookupChild(current, component)
		if next == FreeInode {
			chain.terminal = FreeInode
			return chain
		}
		mode := LockRead
		if i == len(components)-1 {
			mode = terminalMode
		}
		chain.push(next, mode)
		current = next
	}
	chain.terminal = current
	return chain
}

// commonPrefixLen returns how many leading path components a and b share.
func commonPrefixLen(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
