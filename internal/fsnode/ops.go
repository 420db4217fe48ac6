// Package fsnode never returns a Go error from its five operations for
// expected, caller-correctable conditions: each returns an fsnode.Status
// instead, mirroring the source's integer return codes and spec.md §7's
// "no exception-style unwinding across operations" policy. A Go error
// would invite callers to wrap/unwrap it across the wire boundary; a
// Status is already the wire value.
package fsnode

// FS is the concurrent filesystem engine: an inode table plus the snapshot
// coordinator that serializes Print against the three mutators.
type FS struct {
	table      *Table
	snapshot   *snapshotCoordinator
}

// New builds a filesystem with a freshly initialized root directory.
func New() *FS {
	return &FS{
		table:    NewTable(),
		snapshot: newSnapshotCoordinator(),
	}
}

// Create installs a new inode of kind at path. Grounded in operations.c's
// create.
func (fs *FS) Create(path string, kind Type) (inumber int, status Status) {
	fs.snapshot.mutatorEnter()
	defer fs.snapshot.mutatorLeave()

	parentPath, childName := splitParentChild(path)
	chain := resolveForCommand(fs.table, parentPath, LockWrite)
	defer chain.release()

	parent := chain.terminal
	if parent == FreeInode || fs.table.Kind(parent) != TypeDirectory {
		return FreeInode, BadParent
	}

	if fs.table.lookupChild(parent, childName) != FreeInode {
		return FreeInode, Exists
	}

	child, status := fs.table.Allocate(kind, LockWrite)
	if !status.Ok() {
		return FreeInode, status
	}
	defer fs.table.Unlock(child, LockWrite)

	if status := fs.table.DirAddEntry(parent, child, childName); !status.Ok() {
		fs.table.Free(child)
		return FreeInode, DirFull
	}

	return child, OK
}

// Delete removes an empty directory or a file at path. Grounded in
// operations.c's delete.
func (fs *FS) Delete(path string) Status {
	fs.snapshot.mutatorEnter()
	defer fs.snapshot.mutatorLeave()

	parentPath, childName := splitParentChild(path)
	chain := resolveForCommand(fs.table, parentPath, LockWrite)
	defer chain.release()

	parent := chain.terminal
	if parent == FreeInode || fs.table.Kind(parent) != TypeDirectory {
		return BadParent
	}

	child := fs.table.lookupChild(parent, childName)
	if child == FreeInode {
		return NotFound
	}

	fs.table.Lock(child, LockWrite)
	defer fs.table.Unlock(child, LockWrite)

	if fs.table.Kind(child) == TypeDirectory && !fs.table.isEmptyDir(child) {
		return NotEmpty
	}

	if status := fs.table.DirResetEntry(parent, child); !status.Ok() {
		return status
	}
	fs.table.Free(child)
	return OK
}

// Lookup resolves path under read locks only, not coordinated against
// snapshots. Grounded in operations.c's lookup.
func (fs *FS) Lookup(path string) int {
	return resolveForRead(fs.table, path)
}

// Move repositions the subtree at oldPath to newPath, preserving its
// inumber. Grounded in operations.c's move, but fixes the latent deadlock
// the source leaves open: the two resolveForCommand calls on the parent
// paths are ordered lexicographically (spec.md §4.3 Policy A) instead of
// being issued in caller order, so two concurrent moves of symmetric paths
// can never deadlock on each other's parent chain.
func (fs *FS) Move(oldPath, newPath string) Status {
	fs.snapshot.mutatorEnter()
	defer fs.snapshot.mutatorLeave()

	// Pre-check (spec.md step 1): cheap, lock-coupled, may be stale by
	// the time the real chains are held — re-verified below.
	if fs.Lookup(oldPath) == FreeInode {
		return NotFound
	}
	if fs.Lookup(newPath) != FreeInode {
		return Exists
	}

	oldParentPath, oldName := splitParentChild(oldPath)
	newParentPath, newName := splitParentChild(newPath)

	var oldChain, newChain *lockChain
	// newAncestry is the full root-to-newParent inumber list, used by the
	// cycle check below. When newParentPath is resolved as a continuation
	// of oldParentPath's chain, its own chain only holds the suffix of
	// that path — the shared prefix lives in oldChain — so the full
	// ancestry has to be reassembled from both.
	var newAncestry []int
	switch {
	case oldParentPath == newParentPath:
		// Same parent on both sides: one chain covers both, and there is
		// no second path to continue into.
		chain := resolveForCommand(fs.table, oldParentPath, LockWrite)
		defer chain.release()
		oldChain, newChain = chain, chain
		newAncestry = chain.inodes

	case newParentPath < oldParentPath:
		// newParentPath sorts first: resolve it fully from the root,
		// then continue from wherever its walk and oldParentPath's walk
		// part ways to resolve oldParentPath — never re-locking a node
		// the first walk already holds (see continueResolveForCommand).
		firstChain := resolveForCommand(fs.table, newParentPath, LockWrite)
		defer firstChain.release()
		k := commonPrefixLen(splitPath(newParentPath), splitPath(oldParentPath))
		secondChain := continueResolveForCommand(fs.table, firstChain.inodes[k], splitPath(oldParentPath)[k:], LockWrite)
		defer secondChain.release()
		newChain, oldChain = firstChain, secondChain
		newAncestry = firstChain.inodes

	default:
		// oldParentPath sorts first (or is equal-length but differs
		// earlier): symmetric to the branch above.
		firstChain := resolveForCommand(fs.table, oldParentPath, LockWrite)
		defer firstChain.release()
		k := commonPrefixLen(splitPath(oldParentPath), splitPath(newParentPath))
		secondChain := continueResolveForCommand(fs.table, firstChain.inodes[k], splitPath(newParentPath)[k:], LockWrite)
		defer secondChain.release()
		oldChain, newChain = firstChain, secondChain
		newAncestry = append(append([]int(nil), firstChain.inodes[:k+1]...), secondChain.inodes...)
	}

	oldParent := oldChain.terminal
	if oldParent == FreeInode || fs.table.Kind(oldParent) != TypeDirectory {
		return BadParent
	}
	newParent := newChain.terminal
	if newParent == FreeInode || fs.table.Kind(newParent) != TypeDirectory {
		return BadParent
	}

	child := fs.table.lookupChild(oldParent, oldName)
	if child == FreeInode {
		return NotFound
	}
	if fs.table.lookupChild(newParent, newName) != FreeInode {
		return Exists
	}

	// Cycle check (spec.md §4.3): child must not appear on the path from
	// the root to newParent. newAncestry IS that path — the resolver
	// already walked it and holds every node on it locked (read-locked
	// except newParent itself and, when oldParent is an ancestor of
	// newParent, oldParent), so no extra traversal or locking is
	// needed, and none would be safe: newParent is already write-locked,
	// so a fresh top-down walk could self-deadlock on it.
	if fs.table.Kind(child) == TypeDirectory && containsInt(newAncestry, child) {
		return Cycle
	}

	fs.table.Lock(child, LockWrite)
	defer fs.table.Unlock(child, LockWrite)

	if status := fs.table.DirAddEntry(newParent, child, newName); !status.Ok() {
		return status
	}
	fs.table.DirResetEntry(oldParent, child)
	return OK
}

func containsInt(xs []int, x int) bool {
	for _, n := range xs {
		if n == x {
			return true
		}
	}
	return false
}
