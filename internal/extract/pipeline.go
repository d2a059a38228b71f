package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/unzrip/unzrip/internal/codec"
	"github.com/unzrip/unzrip/internal/crc32check"
	"github.com/unzrip/unzrip/internal/dostime"
	"github.com/unzrip/unzrip/internal/filenameenc"
	"github.com/unzrip/unzrip/internal/pathsafe"
	"github.com/unzrip/unzrip/internal/zipfmt"
)

// modeTypeMask isolates the file-type bits of a POSIX mode word.
const modeTypeMask = 0xF000

// sIFLNK is S_IFLNK, the POSIX file-type bits for a symbolic link.
const sIFLNK = 0xA000

const (
	modeSetuid = 0o4000
	modeSetgid = 0o2000
	modeSticky = 0o1000
)

type entryKind int

const (
	kindRegular entryKind = iota
	kindDirectory
	kindSymlink
)

func classify(name string, h zipfmt.CentralFileHeader) entryKind {
	if strings.HasSuffix(name, "/") {
		return kindDirectory
	}
	if isSymlinkHeader(h) {
		return kindSymlink
	}
	return kindRegular
}

func isSymlinkHeader(h zipfmt.CentralFileHeader) bool {
	return h.IsUnix() && h.PosixMode()&modeTypeMask == sIFLNK
}

// symlinkAncestor reports whether name is extracted through one of the
// archive's own symlink entries, i.e. some proper prefix of name names a
// symlink elsewhere in the same archive. This is checked against the
// archive's header list rather than the filesystem so the answer doesn't
// depend on which entry a concurrent worker happens to extract first: a
// symlink planted by entry A and a regular file at "A/evil" dispatched to
// different workers could otherwise race the on-disk check.
func symlinkAncestor(name string, symlinkNames []string) (string, bool) {
	for _, s := range symlinkNames {
		if strings.HasPrefix(name, s+"/") {
			return s, true
		}
	}
	return "", false
}

// sanitizeSetuid clears setuid, setgid and sticky bits from a mode word
// taken from an archive's ext_attrs, so a malicious archive cannot plant
// a setuid binary via extraction.
func sanitizeSetuid(mode uint32) uint32 {
	return mode &^ (modeSetuid | modeSetgid | modeSticky)
}

// doEntry extracts one Central File Header's worth of an archive into
// targetDir, through fs. image is the full mapped archive backing both
// the CFH's borrowed slices and the Local File Header it points to.
func doEntry(fs afero.Fs, image []byte, archivePath string, h zipfmt.CentralFileHeader, targetDir string, policy filenameenc.Policy, symlinkNames []string) error {
	name, err := policy.Decode(h.Name)
	if err != nil {
		return entryErr(archivePath, string(h.Name), "decode filename", KindBadEncoding, err)
	}

	if s, ok := symlinkAncestor(name, symlinkNames); ok {
		return entryErr(archivePath, name, "check path", KindBadName,
			fmt.Errorf("%w: passes through symlinked entry %q", pathsafe.ErrSymlinkComponent, s))
	}

	dest, err := pathsafe.Join(targetDir, name)
	if err != nil {
		return entryErr(archivePath, name, "join path", KindBadName, err)
	}

	if _, ok := fs.(*afero.OsFs); ok {
		if err := pathsafe.EnsureNoSymlinkComponents(targetDir, dest); err != nil {
			return entryErr(archivePath, name, "check path", KindBadName, err)
		}
	}

	kind := classify(name, h)

	if kind == kindDirectory {
		if err := fs.MkdirAll(dest, 0o755); err != nil {
			return entryErr(archivePath, name, "mkdir", KindIO, err)
		}
		return applyMetadata(fs, dest, h)
	}

	lfh, payloadOffset, err := zipfmt.ParseLFH(image, h.LFHOffset)
	if err != nil {
		return entryErr(archivePath, name, "parse lfh", KindBadLFH, err)
	}
	end := uint64(payloadOffset) + uint64(lfh.CompSize)
	if end > uint64(len(image)) {
		return entryErr(archivePath, name, "locate payload", KindOffsetOverflow,
			fmt.Errorf("payload end %d exceeds image length %d", end, len(image)))
	}
	comp := image[payloadOffset:end]

	dec, err := codec.NewDecoder(codec.Method(h.Method), comp)
	if err != nil {
		return entryErr(archivePath, name, "select decoder", KindUnsupported, err)
	}
	defer dec.Close()

	checked := crc32check.NewReader(dec, h.CRC32)

	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return entryErr(archivePath, name, "mkdir ancestors", KindIO, err)
	}

	switch kind {
	case kindSymlink:
		if err := materializeSymlink(dest, checked); err != nil {
			return entryErr(archivePath, name, "create symlink", KindIO, err)
		}
		return nil
	default:
		if err := materializeFile(fs, dest, checked); err != nil {
			return entryErr(archivePath, name, "write file", classifyWriteErr(err), err)
		}
		return applyMetadata(fs, dest, h)
	}
}

func classifyWriteErr(err error) Kind {
	if errors.Is(err, crc32check.ErrMismatch) {
		return KindIntegrity
	}
	return KindIO
}

// materializeFile streams src to dest. When fs is backed by the real
// operating system filesystem, the final component is opened with
// O_NOFOLLOW so a symlink planted at the destination by a previous,
// malicious entry is never traversed; afero-backed virtual filesystems
// used in tests fall back to a plain create/truncate open since they
// have no symlinks to guard against.
func materializeFile(fs afero.Fs, dest string, src io.Reader) error {
	if _, ok := fs.(*afero.OsFs); ok {
		f, err := pathsafe.OpenNoFollow(dest, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(f, src)
		return err
	}

	f, err := fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, src)
	return err
}

// materializeSymlink reads the entire decoded stream (a link target is
// always short) and creates a symlink at dest, replacing anything
// already there. afero.Fs has no symlink primitives, so this always goes
// through the OS filesystem directly, matching the documented gap in
// afero's interface.
func materializeSymlink(dest string, src io.Reader) error {
	target, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	if _, statErr := os.Lstat(dest); statErr == nil {
		if err := os.Remove(dest); err != nil {
			return err
		}
	}
	return os.Symlink(string(target), dest)
}

// applyMetadata sets the POSIX mode carried by a Unix-origin header and,
// for any header, its modification time on a directory or regular file.
// It is never called for symlinks: os.Chmod/os.Chtimes both follow symlinks, which would
// silently touch the link's target instead of the link itself.
func applyMetadata(fs afero.Fs, dest string, h zipfmt.CentralFileHeader) error {
	if h.IsUnix() {
		mode := sanitizeSetuid(h.PosixMode())
		if err := fs.Chmod(dest, os.FileMode(mode&0o7777)); err != nil {
			return err
		}
	}
	mtime, err := dostime.Decode(h.ModDate, h.ModTime)
	if err != nil {
		// A BadDate is not fatal: the entry is already extracted, the
		// timestamp is simply left at its creation-time default.
		return nil
	}
	return fs.Chtimes(dest, mtime, mtime)
}
