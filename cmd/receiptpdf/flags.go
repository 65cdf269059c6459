package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// cliFlags holds the parsed command line for receipt generation.
type cliFlags struct {
	orderPaths []string
	output     string
	config     string
	timeout    string
	userID     int64
	staff      bool
	workers    int
	assetPath  string
	imagesDir  string
	stylesDir  string
	imageStore string
	verbose    bool
	version    bool
}

// parseFlags parses the command line. At least one order fixture path is
// required unless --version is requested.
func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("receiptpdf", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringArrayVar(&f.orderPaths, "order", nil, "order fixture file (YAML), repeatable for batch generation")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: config output dir)")
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g. 30s, 2m)")
	fs.Int64Var(&f.userID, "user", 0, "requesting user ID (default: order owner)")
	fs.BoolVar(&f.staff, "staff", false, "bypass the ownership check")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch generation (0 = auto)")
	fs.StringVar(&f.assetPath, "asset-path", "", "template/style override directory")
	fs.StringVar(&f.imagesDir, "images-dir", "", "URL prefix for receipt images")
	fs.StringVar(&f.stylesDir, "styles-dir", "", "URL prefix for stylesheets (default: inline)")
	fs.StringVar(&f.imageStore, "image-store", "", "local directory serving product images")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !f.version && len(f.orderPaths) == 0 {
		return nil, fmt.Errorf("%w: --order is required", ErrInvalidArgs)
	}
	if f.workers < 0 {
		return nil, fmt.Errorf("%w: --workers must be >= 0", ErrInvalidArgs)
	}
	return f, nil
}
