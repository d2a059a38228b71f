// Command unzrip extracts one or more ZIP archives to a target directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/unzrip/unzrip/internal/extract"
	"github.com/unzrip/unzrip/internal/filenameenc"
)

func main() {
	destDir := flag.String("d", ".", "output directory")
	charsetLabel := flag.String("O", "", "explicit filename charset (WHATWG encoding label, e.g. shift_jis, gbk)")
	keepOriginFilename := flag.Bool("keep-origin-filename", false, "treat filename bytes as the host's native filename encoding; overrides -O")
	flag.Parse()

	archives := flag.Args()
	if len(archives) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: unzrip [-d dir] [-O charset] [--keep-origin-filename] ARCHIVE ...")
		os.Exit(2)
	}

	policy, err := resolvePolicy(*keepOriginFilename, *charsetLabel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fs := afero.NewOsFs()
	failed := false
	for _, path := range archives {
		fmt.Printf("Archive: %s\n", path)
		if err := extractOne(fs, path, *destDir, policy); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func resolvePolicy(keepOriginFilename bool, charsetLabel string) (filenameenc.Policy, error) {
	switch {
	case keepOriginFilename:
		return filenameenc.NewOSNative(), nil
	case charsetLabel != "":
		return filenameenc.NewCharset(charsetLabel)
	default:
		return filenameenc.NewAuto(), nil
	}
}

func extractOne(fs afero.Fs, archivePath, destDir string, policy filenameenc.Policy) error {
	a, err := extract.Open(archivePath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fs.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	return a.Extract(context.Background(), fs, destDir, policy)
}
