// Package pathsafe joins untrusted archive entry names against an
// extraction root without ever escaping it, and opens the final
// destination component without following a symlink planted there.
package pathsafe

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/zeebo/errs/v2"
)

// ErrBadName is returned when an entry name contains a path traversal
// or absolute-path component.
var ErrBadName = errs.Errorf("unsafe entry name")

// ErrSymlinkComponent is returned when a directory component between an
// extraction root and a destination path already exists as a symlink.
var ErrSymlinkComponent = errs.Errorf("path component is a symlink")

// Join resolves name (forward-slash separated, as ZIP stores it) against
// root component by component: an absolute name or any ".." component
// is rejected outright rather than silently normalized away, "." and
// empty components are dropped, and everything else is appended
// verbatim. The result is guaranteed to be lexically contained under
// root.
func Join(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrBadName)
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrBadName, name)
	}

	parts := strings.Split(name, "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrBadName, name)
		default:
			kept = append(kept, part)
		}
	}

	return path.Join(append([]string{root}, kept...)...), nil
}

// EnsureNoSymlinkComponents walks every directory component strictly
// between root and dest and fails if any of them already exists as a
// symlink. Join alone only rejects traversal in the entry name itself; a
// prior entry in the same archive can still have planted a symlink at an
// intermediate path, which would otherwise let a later entry's open call
// silently follow it outside root. Components that don't exist yet are
// fine, since they'll be created fresh by MkdirAll.
func EnsureNoSymlinkComponents(root, dest string) error {
	rel, err := filepath.Rel(root, filepath.Dir(dest))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSymlinkComponent, err)
	}

	cur := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		cur = filepath.Join(cur, part)

		info, err := os.Lstat(cur)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrSymlinkComponent, cur)
		}
	}
	return nil
}
