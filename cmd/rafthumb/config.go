package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/rafthumb"
)

// errUsage is returned for bad command lines and refused output names.
var errUsage = errors.New("usage")

type config struct {
	input  string
	output string

	verbose bool
	scan    bool
	png     bool
	dump    bool
	info    bool
	limit   uint
}

// parseConfig reads flags from fs and the RAF_* environment variables through getenv.
func parseConfig(fs *flag.FlagSet, args []string, getenv func(string) string) (*config, error) {
	cfg := &config{}

	fs.BoolVar(&cfg.verbose, "verbose", false, "log header and thumbnail ranges (also RAF_VERBOSE)")
	fs.BoolVar(&cfg.scan, "scan", false, "scan JPEG segments for the EXIF APP1 marker (also RAF_SCAN_MARKERS)")
	fs.BoolVar(&cfg.png, "png", false, "write PNG regardless of the output extension")
	fs.BoolVar(&cfg.dump, "dump", false, "print the EXIF IFDs of the embedded JPEG")
	fs.BoolVar(&cfg.info, "info", false, "print the parsed RAF structure")
	fs.UintVar(&cfg.limit, "m", 20, "maximum values to print per field with -dump, 0 for no limit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	if getenv("RAF_VERBOSE") != "" {
		cfg.verbose = true
	}

	if getenv("RAF_SCAN_MARKERS") != "" {
		cfg.scan = true
	}

	inspect := cfg.dump || cfg.info

	switch {
	case fs.NArg() == 2:
		cfg.input, cfg.output = fs.Arg(0), fs.Arg(1)
	case fs.NArg() == 1 && inspect:
		cfg.input = fs.Arg(0)
	default:
		return nil, fmt.Errorf("%w: %s [flags] IMAGE.RAF THUMB.JPEG", errUsage, fs.Name())
	}

	if cfg.output != "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(cfg.output), "."))
		if strings.HasPrefix(ext, "raf") {
			return nil, fmt.Errorf("%w: refusing to write jpg contents to a filename with raf extension: %s", errUsage, cfg.output)
		}

		if strings.HasPrefix(ext, "png") {
			cfg.png = true
		}
	}

	return cfg, nil
}

func (cfg *config) options() *rafthumb.Options {
	return &rafthumb.Options{
		PNG:         cfg.png,
		ScanMarkers: cfg.scan,
		Verbose:     cfg.verbose,
	}
}
