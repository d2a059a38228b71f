// Package extract drives per-archive, per-entry parallel decompression:
// memory-map the archive, walk its central directory, and fan the
// resulting headers out across a worker pool that streams each entry
// through the codec and CRC-32 layers into the destination filesystem.
package extract

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/afero"
	"github.com/zeebo/errs/v2"
	"golang.org/x/sync/errgroup"

	"github.com/unzrip/unzrip/internal/filenameenc"
	"github.com/unzrip/unzrip/internal/zipfmt"
)

// state is the per-archive lifecycle an Archive moves through. It never
// moves backward and is only used for an internal consistency check.
type state int

const (
	stateMapped state = iota
	stateCdParsed
	stateDispatched
	stateDrained
)

// Archive is one opened, memory-mapped ZIP file ready for extraction.
type Archive struct {
	path    string
	file    *os.File
	mapping *mapping
	headers []zipfmt.CentralFileHeader
	state   state
}

// Open memory-maps path read-only and walks its central directory. The
// returned Archive must be closed with Close once extraction finishes.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, entryErr(path, "", "open", KindIO, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, entryErr(path, "", "stat", KindIO, err)
	}

	m, err := mapFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, entryErr(path, "", "mmap", KindIO, err)
	}

	a := &Archive{path: path, file: f, mapping: m, state: stateMapped}

	eocdr, err := zipfmt.Locate(m.bytes())
	if err != nil {
		a.Close()
		return nil, entryErr(path, "", "locate eocdr", kindOf(err), err)
	}
	if eocdr.MultiDisk() {
		a.Close()
		return nil, entryErr(path, "", "locate eocdr", KindUnsupported, fmt.Errorf("multi-disk archives are not supported"))
	}
	a.state = stateCdParsed

	headers, err := zipfmt.Walk(m.bytes(), eocdr)
	if err != nil {
		a.Close()
		return nil, entryErr(path, "", "walk central directory", kindOf(err), err)
	}
	a.headers = headers

	return a, nil
}

// Close releases the archive's memory map and underlying file handle.
func (a *Archive) Close() error {
	var mErr, fErr error
	if a.mapping != nil {
		mErr = a.mapping.close()
	}
	if a.file != nil {
		fErr = a.file.Close()
	}
	return errs.Combine(mErr, fErr)
}

// EntryCount returns the number of Central Directory entries found.
func (a *Archive) EntryCount() int { return len(a.headers) }

// Extract dispatches every entry to a worker pool sized to GOMAXPROCS and
// materializes it under targetDir via fs, decoding filenames per policy.
// Every entry is attempted regardless of earlier failures; all resulting
// errors are combined and returned together once every worker has
// quiesced, rather than reporting only the first.
func (a *Archive) Extract(ctx context.Context, fs afero.Fs, targetDir string, policy filenameenc.Policy) error {
	if a.state != stateCdParsed {
		return entryErr(a.path, "", "extract", KindIO, fmt.Errorf("archive not in a parsable state"))
	}
	a.state = stateDispatched

	limiter := make(chan struct{}, runtime.GOMAXPROCS(0))
	results := make([]error, len(a.headers))

	wg, ctx := errgroup.WithContext(ctx)
	image := a.mapping.bytes()

	var symlinkNames []string
	for _, h := range a.headers {
		if !isSymlinkHeader(h) {
			continue
		}
		if n, err := policy.Decode(h.Name); err == nil {
			symlinkNames = append(symlinkNames, n)
		}
	}

	for i, h := range a.headers {
		i, h := i, h

		if !zipfmt.Supported(h) {
			results[i] = entryErr(a.path, string(h.Name), "classify", KindUnsupported, fmt.Errorf("unsupported entry"))
			continue
		}

		select {
		case limiter <- struct{}{}:
		case <-ctx.Done():
			results[i] = ctx.Err()
			continue
		}

		wg.Go(func() error {
			defer func() { <-limiter }()
			results[i] = doEntry(fs, image, a.path, h, targetDir, policy, symlinkNames)
			return nil
		})
	}

	_ = wg.Wait()
	a.state = stateDrained

	return combineErrs(results)
}

func combineErrs(list []error) error {
	var combined error
	for _, e := range list {
		if e != nil {
			combined = errs.Combine(combined, e)
		}
	}
	return combined
}

func kindOf(err error) Kind {
	var fe *zipfmt.FormatError
	if ok := asZipfmtError(err, &fe); ok {
		switch fe.Kind {
		case zipfmt.KindEOF:
			return KindEOF
		case zipfmt.KindBadEOCDR:
			return KindBadEOCDR
		case zipfmt.KindBadCFH:
			return KindBadCFH
		case zipfmt.KindBadLFH:
			return KindBadLFH
		case zipfmt.KindOffsetOverflow:
			return KindOffsetOverflow
		case zipfmt.KindUnsupported:
			return KindUnsupported
		}
	}
	return KindIO
}

func asZipfmtError(err error, target **zipfmt.FormatError) bool {
	fe, ok := err.(*zipfmt.FormatError)
	if !ok {
		return false
	}
	*target = fe
	return true
}
