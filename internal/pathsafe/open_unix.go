//go:build unix

package pathsafe

import (
	"os"
	"syscall"
)

// OpenNoFollow creates (or truncates) dest for writing, refusing to
// follow a symlink planted at the final path component. Intermediate
// directories are assumed to already exist and be trustworthy.
func OpenNoFollow(dest string, mode os.FileMode) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC | syscall.O_NOFOLLOW
	return os.OpenFile(dest, flags, mode)
}
