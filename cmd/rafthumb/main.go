// Command rafthumb writes the embedded thumbnail of a Fujifilm RAF file to a
// JPEG file, or to a PNG file when the output name ends in .png.
//
// Usage:
//
//	rafthumb [flags] IMAGE.RAF THUMB.JPEG
//
// The exit status tells the failure apart: 1 for I/O errors, 2 for usage,
// and 10 and up for each kind of malformed input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"

	"github.com/gen2brain/rafthumb"
)

// Exit status per error kind.
var exitCodes = []struct {
	err  error
	code int
}{
	{errUsage, 2},
	{rafthumb.ErrInvalidContainer, 10},
	{rafthumb.ErrInvalidJpeg, 11},
	{rafthumb.ErrMissingApp1, 12},
	{rafthumb.ErrMissingExifTag, 13},
	{rafthumb.ErrInvalidByteOrder, 14},
	{rafthumb.ErrMissingThumbnailTags, 15},
	{rafthumb.ErrImageDecodeFailed, 20},
	{rafthumb.ErrImageEncodeFailed, 21},
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}

	return 1
}

func main() {
	// Log to stderr unless the user asks for log files.
	_ = flag.Set("logtostderr", "true")

	cfg, err := parseConfig(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}

	err = run(cfg, os.Stdout)
	if err != nil {
		glog.Errorf("%s: %v", cfg.input, err)
	}

	glog.Flush()
	os.Exit(exitCode(err))
}

// run processes one RAF file as described by cfg.
func run(cfg *config, stdout io.Writer) error {
	buf, err := os.ReadFile(cfg.input)
	if err != nil {
		return err
	}

	opts := cfg.options()

	if cfg.dump || cfg.info {
		info, err := rafthumb.Parse(buf, opts)
		if err != nil {
			return err
		}

		if cfg.info {
			spew.Fdump(stdout, info)
		}

		if cfg.dump {
			body := buf[info.TIFFBody.Offset:info.TIFFBody.End()]
			if err := dumpTIFF(stdout, body, info.TIFF, uint32(cfg.limit)); err != nil {
				glog.Warningf("%s: %v", cfg.input, err)
			}
		}
	}

	if cfg.output == "" {
		return nil
	}

	data, err := rafthumb.Extract(buf, opts)
	if err != nil {
		return err
	}

	return writeFile(cfg.output, data)
}

// writeFile writes data to a temporary file next to name and renames it into
// place, so a failed run leaves no partial output.
func writeFile(name string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	n, err := f.Write(data)
	if err != nil {
		return err
	}

	if n != len(data) {
		return io.ErrShortWrite
	}

	if err = f.Chmod(0o644); err != nil {
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), name)
}
