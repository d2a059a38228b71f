package pathsafe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestJoinRejectsTraversal(t *testing.T) {
	cases := []string{
		"../etc/passwd",
		"a/../../b",
		"a/b/../../../c",
	}
	for _, name := range cases {
		if _, err := Join("/extract", name); !errors.Is(err, ErrBadName) {
			t.Errorf("Join(%q) error = %v; want wrapping ErrBadName", name, err)
		}
	}
}

func TestJoinAcceptsNormalPaths(t *testing.T) {
	cases := map[string]string{
		"a/b/c.txt": "/extract/a/b/c.txt",
		"c.txt":     "/extract/c.txt",
		"a/./b.txt": "/extract/a/b.txt",
	}
	for name, want := range cases {
		got, err := Join("/extract", name)
		if err != nil {
			t.Fatalf("Join(%q) returned error: %v", name, err)
		}
		if got != want {
			t.Errorf("Join(%q) = %q; want %q", name, got, want)
		}
	}
}

func TestJoinRejectsEmptyName(t *testing.T) {
	if _, err := Join("/extract", ""); !errors.Is(err, ErrBadName) {
		t.Errorf("error = %v; want wrapping ErrBadName", err)
	}
}

func TestJoinRejectsAbsoluteName(t *testing.T) {
	if _, err := Join("/extract", "/etc/passwd"); !errors.Is(err, ErrBadName) {
		t.Errorf("error = %v; want wrapping ErrBadName", err)
	}
}

func TestEnsureNoSymlinkComponentsAcceptsFreshPath(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "a", "b", "c.txt")
	if err := EnsureNoSymlinkComponents(root, dest); err != nil {
		t.Errorf("EnsureNoSymlinkComponents returned error: %v", err)
	}
}

func TestEnsureNoSymlinkComponentsRejectsSymlinkedAncestor(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "a")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("Symlink returned error: %v", err)
	}

	dest := filepath.Join(link, "evil.txt")
	if err := EnsureNoSymlinkComponents(root, dest); !errors.Is(err, ErrSymlinkComponent) {
		t.Errorf("error = %v; want wrapping ErrSymlinkComponent", err)
	}
}
