//go:build !unix

package pathsafe

import "os"

// OpenNoFollow creates (or truncates) dest for writing. Platforms outside
// the unix build tag have no portable O_NOFOLLOW equivalent in the
// standard library, so this fallback offers no symlink protection beyond
// what the OS does by default.
func OpenNoFollow(dest string, mode os.FileMode) (*os.File, error) {
	return os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
}
