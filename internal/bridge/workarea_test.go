package bridge

import (
	"os"
	"testing"
)

func TestWorkAreaPermissions(t *testing.T) {
	wa, err := newWorkArea(t.TempDir(), "print('x')\n")
	if err != nil {
		t.Fatalf("newWorkArea: %v", err)
	}
	defer wa.remove(testLogger())

	dirInfo, err := os.Stat(wa.dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("work area dir perm = %o, want 700", perm)
	}

	scriptInfo, err := os.Stat(wa.scriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := scriptInfo.Mode().Perm(); perm != 0o600 {
		t.Errorf("script file perm = %o, want 600", perm)
	}
}

func TestWorkAreaUniqueNames(t *testing.T) {
	base := t.TempDir()
	a, err := newWorkArea(base, "x")
	if err != nil {
		t.Fatal(err)
	}
	defer a.remove(testLogger())

	b, err := newWorkArea(base, "y")
	if err != nil {
		t.Fatal(err)
	}
	defer b.remove(testLogger())

	if a.dir == b.dir {
		t.Errorf("two work areas share a directory: %s", a.dir)
	}
}

func TestWorkAreaRemove(t *testing.T) {
	wa, err := newWorkArea(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	wa.remove(testLogger())

	if _, err := os.Stat(wa.dir); !os.IsNotExist(err) {
		t.Errorf("work area still present after remove")
	}
}
