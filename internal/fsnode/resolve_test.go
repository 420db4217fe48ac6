package fsnode

import "testing"

func TestSplitParentChild(t *testing.T) {
	cases := []struct {
		path, parent, child string
	}{
		{"/a", "", "a"},
		{"/a/b", "a", "b"},
		{"/a/b/c", "a/b", "c"},
		{"/a/", "", "a"},
	}
	for _, c := range cases {
		parent, child := splitParentChild(c.path)
		if parent != c.parent || child != c.child {
			t.Errorf("splitParentChild(%q) = (%q, %q), want (%q, %q)", c.path, parent, child, c.parent, c.child)
		}
	}
}

func TestCommonPrefixLen(t *testing.T) {
	cases := []struct {
		a, b []string
		want int
	}{
		{[]string{"a"}, []string{"a", "b"}, 1},
		{[]string{"a", "b"}, []string{"a", "c"}, 1},
		{[]string{"a", "b"}, []string{"a", "b"}, 2},
		{nil, []string{"a"}, 0},
	}
	for _, c := range cases {
		if got := commonPrefixLen(c.a, c.b); got != c.want {
			t.Errorf("commonPrefixLen(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestResolveForReadFindsCreatedPath(t *testing.T) {
	fs := New()
	if _, status := fs.Create("/a", TypeDirectory); !status.Ok() {
		t.Fatalf("Create: %v", status)
	}
	inumber, status := fs.Create("/a/x", TypeFile)
	if !status.Ok() {
		t.Fatalf("Create: %v", status)
	}

	if got := resolveForRead(fs.table, "a/x"); got != inumber {
		t.Fatalf("resolveForRead = %d, want %d", got, inumber)
	}
}

func TestResolveForReadMissingComponentFails(t *testing.T) {
	fs := New()
	if got := resolveForRead(fs.table, "nope"); got != FreeInode {
		t.Fatalf("resolveForRead on missing path = %d, want FreeInode", got)
	}
}

func TestResolveForReadReleasesItsChain(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	resolveForRead(fs.table, "a")

	// If resolveForRead leaked its read lock on root, a write lock here
	// would deadlock the test.
	fs.table.Lock(RootInumber, LockWrite)
	fs.table.Unlock(RootInumber, LockWrite)
}

func TestResolveForCommandLocksTerminalInRequestedMode(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)

	chain := resolveForCommand(fs.table, "a", LockWrite)
	if chain.terminal == FreeInode {
		t.Fatal("terminal should resolve")
	}
	if last := chain.modes[len(chain.modes)-1]; last != LockWrite {
		t.Fatalf("terminal lock mode = %v, want LockWrite", last)
	}
	if chain.modes[0] != LockRead {
		t.Fatalf("root lock mode = %v, want LockRead", chain.modes[0])
	}
	chain.release()

	// release must be idempotent.
	chain.release()
}

func TestContinueResolveForCommandLocksOnlySuffix(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	fs.Create("/a/b", TypeDirectory)
	fs.Create("/a/b/c", TypeDirectory)

	first := resolveForCommand(fs.table, "a", LockWrite)
	defer first.release()

	second := continueResolveForCommand(fs.table, first.terminal, []string{"b", "c"}, LockWrite)
	defer second.release()

	if second.terminal == FreeInode {
		t.Fatal("continuation should resolve to c's inumber")
	}
	if len(second.inodes) != 2 {
		t.Fatalf("continuation chain length = %d, want 2", len(second.inodes))
	}
}
