package fsnode

import "sync"

// dirEntry is a (inumber, name) pair inside a directory's fixed-size entry
// array. inumber == FreeInode marks a vacant slot.
type dirEntry struct {
	inumber int
	name    string
}

// slot is one row of the inode table: a type tag, directory payload (nil for
// files and for T_NONE slots), and the per-inode reader/writer lock that
// guards both the tag and the payload.
//
// Grounded in the teacher's Inode.treeLock *sync.RWMutex (fuse/inode.go),
// narrowed from one lock per mount to one lock per slot, matching
// state.c's pthread_rwlock_t inode_table[i].lock.
type slot struct {
	lock    sync.RWMutex
	kind    Type
	entries []dirEntry // len == MaxDirEntries when kind == TypeDirectory
}

// LockMode selects which kind of per-inode lock an operation wants.
type LockMode int

const (
	LockRead LockMode = iota
	LockWrite
)

// Table is the fixed-capacity inode table. The zero value is not usable;
// construct with NewTable.
type Table struct {
	slots [InodeTableSize]slot
}

// NewTable allocates and initializes a table with an empty root directory
// at inumber RootInumber, mirroring state.c's inode_table_init followed by
// operations.c's init_fs call to inode_create(T_DIRECTORY, 'x').
func NewTable() *Table {
	t := &Table{}
	root := &t.slots[RootInumber]
	root.kind = TypeDirectory
	root.entries = newEmptyEntries()
	return t
}

func newEmptyEntries() []dirEntry {
	entries := make([]dirEntry, MaxDirEntries)
	for i := range entries {
		entries[i].inumber = FreeInode
	}
	return entries
}

// Allocate finds the first free slot, installs it as kind, and returns the
// new inumber locked in the requested mode. It returns NoInode if the table
// is full. Grounded in state.c's inode_create: a linear scan for the first
// T_NONE slot.
//
// The scan itself claims a candidate slot under its own write lock (an
// unallocated slot has no other way to be made atomic against a racing
// Allocate on the same index); LockRead mode then downgrades to a read lock
// before returning. This is safe because a freshly allocated inode is not
// yet reachable from any directory entry, so no other goroutine can be
// waiting to read-lock it in between.
//
// The scan only try-locks each slot and skips any slot whose lock is
// already held: such a slot is live, being claimed by a racing Allocate, or
// being freed by a Delete that still holds it. Blocking there instead would
// self-deadlock callers that hold part of a lock chain, such as Create,
// whose chain holds the root and the parent directory.
func (t *Table) Allocate(kind Type, mode LockMode) (int, Status) {
	for i := 0; i < InodeTableSize; i++ {
		s := &t.slots[i]
		if !s.lock.TryLock() {
			continue
		}
		if s.kind != TypeNone {
			s.lock.Unlock()
			continue
		}
		s.kind = kind
		if kind == TypeDirectory {
			s.entries = newEmptyEntries()
		} else {
			s.entries = nil
		}
		if mode == LockRead {
			s.lock.Unlock()
			s.lock.RLock()
		}
		return i, OK
	}
	return FreeInode, NoInode
}

// Free marks inumber's slot vacant and drops its directory payload. The
// caller retains (and must release) any lock it holds on the slot — Free
// mirrors state.c's inode_delete, which never touches the rwlock itself.
func (t *Table) Free(inumber int) Status {
	if !t.valid(inumber) {
		panic("fsnode: Free on out-of-range inumber")
	}
	s := &t.slots[inumber]
	if s.kind == TypeNone {
		panic("fsnode: Free on unallocated inumber")
	}
	s.kind = TypeNone
	s.entries = nil
	return OK
}

func (t *Table) valid(inumber int) bool {
	return inumber >= 0 && inumber < InodeTableSize
}

// Kind reports the type of a live inode. Called under at least a read lock
// on inumber, directly or via the resolver's lock chain.
func (t *Table) Kind(inumber int) Type {
	if !t.valid(inumber) {
		panic("fsnode: Kind on out-of-range inumber")
	}
	return t.slots[inumber].kind
}

// Lock acquires inumber's rwlock in the given mode. Blocks like the source's
// inode_lock; a failure from the runtime's mutex implementation is not
// recoverable and is left to panic the goroutine, matching spec.md's policy
// that a corrupted synchronization primitive aborts the process.
func (t *Table) Lock(inumber int, mode LockMode) {
	if !t.valid(inumber) {
		panic("fsnode: Lock on out-of-range inumber")
	}
	s := &t.slots[inumber]
	if mode == LockWrite {
		s.lock.Lock()
	} else {
		s.lock.RLock()
	}
}

// Unlock releases inumber's rwlock. The caller must pass the same mode it
// locked with.
func (t *Table) Unlock(inumber int, mode LockMode) {
	if !t.valid(inumber) {
		panic("fsnode: Unlock on out-of-range inumber")
	}
	s := &t.slots[inumber]
	if mode == LockWrite {
		s.lock.Unlock()
	} else {
		s.lock.RUnlock()
	}
}

// lookupChild scans a directory's entries for name, returning its inumber
// or FreeInode if absent. Grounded in operations.c's lookup_sub_node.
// Must be called with at least a read lock held on parent.
func (t *Table) lookupChild(parent int, name string) int {
	for _, e := range t.slots[parent].entries {
		if e.inumber != FreeInode && e.name == name {
			return e.inumber
		}
	}
	return FreeInode
}

// DirAddEntry installs (child, name) into parent's entry array. parent must
// already be write-locked by the caller. Grounded in state.c's
// dir_add_entry.
func (t *Table) DirAddEntry(parent, child int, name string) Status {
	s := &t.slots[parent]
	if s.kind != TypeDirectory {
		return BadParent
	}
	if name == "" {
		return BadParent
	}
	for i := range s.entries {
		if s.entries[i].inumber == FreeInode {
			s.entries[i] = dirEntry{inumber: child, name: name}
			return OK
		}
	}
	return DirFull
}

// DirResetEntry clears the entry pointing at child within parent's entry
// array. parent must already be write-locked by the caller. Grounded in
// state.c's dir_reset_entry.
func (t *Table) DirResetEntry(parent, child int) Status {
	s := &t.slots[parent]
	if s.kind != TypeDirectory {
		return BadParent
	}
	for i := range s.entries {
		if s.entries[i].inumber == child {
			s.entries[i] = dirEntry{inumber: FreeInode}
			return OK
		}
	}
	return NotFound
}

// isEmptyDir reports whether inumber's directory entry array holds only
// free slots. Grounded in operations.c's is_dir_empty.
func (t *Table) isEmptyDir(inumber int) bool {
	for _, e := range t.slots[inumber].entries {
		if e.inumber != FreeInode {
			return false
		}
	}
	return true
}

// entries returns a copy of a directory's live (inumber, name) pairs, in
// entry-array order. Used by print and by tests; never returns the backing
// array so callers cannot mutate table state without going through
// DirAddEntry/DirResetEntry.
func (t *Table) liveEntries(inumber int) []dirEntry {
	s := &t.slots[inumber]
	out := make([]dirEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.inumber != FreeInode {
			out = append(out, e)
		}
	}
	return out
}
