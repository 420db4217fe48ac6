package fsnode

import "fmt"

// Status is the result of a filesystem operation. A lookup result carried
// as a Status is an inumber when non-negative; the named Status values below
// other than OK are always < 0.
//
// The wire protocol carries exactly this integer: a non-negative decimal is
// success (the inumber for lookup, 0 for every other operation), a negative decimal
// is one of the kinds below. Status never escapes as a Go error across an
// operation boundary — see the package doc in ops.go for why.
type Status int

const (
	// OK is the success status of create, delete, move and print. Create
	// hands back the allocated inumber as a separate value next to OK, and
	// the wire reply for create is OK alone; lookup succeeds with the found
	// inumber instead, which is itself >= 0.
	OK Status = 0

	// BadParent: the parent path did not resolve, or resolved to something
	// that is not a directory.
	BadParent Status = -1

	// Exists: the target name is already present in its parent directory.
	Exists Status = -2

	// NotFound: the target path does not exist.
	NotFound Status = -3

	// NotEmpty: delete was asked to remove a non-empty directory.
	NotEmpty Status = -4

	// NoInode: the inode table has no free slot.
	NoInode Status = -5

	// DirFull: the parent directory has no free entry slot.
	DirFull Status = -6

	// Cycle: move would make a directory its own ancestor.
	Cycle Status = -7

	// BadInumber: an out-of-range or freed slot was referenced. Reaching
	// the operation layer with this status indicates a bug in the
	// resolver or the table, not a user error; callers of the table
	// primitives panic rather than propagate it (see table.go).
	BadInumber Status = -8

	// IOFailure: the snapshot's output file could not be opened or
	// written.
	IOFailure Status = -9
)

var statusNames = map[Status]string{
	OK:         "ok",
	BadParent:  "bad-parent",
	Exists:     "exists",
	NotFound:   "not-found",
	NotEmpty:   "not-empty",
	NoInode:    "no-inode",
	DirFull:    "dir-full",
	Cycle:      "cycle",
	BadInumber: "bad-inumber",
	IOFailure:  "io",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Ok reports whether s represents success. Any non-negative status,
// including an inumber returned by Create or Lookup, counts as success.
func (s Status) Ok() bool {
	return s >= 0
}
