package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	receiptpdf "github.com/alnah/go-receiptpdf"
	"github.com/alnah/go-receiptpdf/internal/config"
)

// run generates receipts from one or more order fixtures and writes them to
// disk. Multiple fixtures render in parallel over a service pool, one browser
// instance per worker.
func run(flags *cliFlags, out io.Writer) error {
	cfg := config.Default()
	if flags.config != "" {
		loaded, err := config.Load(flags.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	timeout := cfg.Timeout()
	if flags.timeout != "" {
		parsed, err := time.ParseDuration(flags.timeout)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		timeout = parsed
	}

	jobs := make([]receiptJob, 0, len(flags.orderPaths))
	orders := make([]*receiptpdf.Order, 0, len(flags.orderPaths))
	for _, path := range flags.orderPaths {
		doc, err := loadOrderDoc(path)
		if err != nil {
			return err
		}
		order := doc.toOrder()
		userID := order.UserID
		if flags.userID != 0 {
			userID = flags.userID
		}
		orders = append(orders, order)
		jobs = append(jobs, receiptJob{orderPath: path, order: order, userID: userID})
	}
	if len(jobs) > 1 && flags.output != "" && !strings.HasSuffix(flags.output, string(filepath.Separator)) && !isDir(flags.output) {
		return fmt.Errorf("%w: --output must be a directory for batch generation", ErrInvalidArgs)
	}

	store, err := newFixtureStore(orders)
	if err != nil {
		return err
	}

	opts := serviceOptions(flags, cfg, timeout)
	size := receiptpdf.ResolvePoolSize(flags.workers)
	if size > len(jobs) {
		size = len(jobs)
	}
	pool := receiptpdf.NewServicePool(size, func() *receiptpdf.Service {
		return receiptpdf.NewService(store, receiptpdf.CardProviders{}, opts...)
	})
	defer pool.Close()

	// No deadline here: the service applies the per-document timeout itself.
	results := generateBatch(context.Background(), servicePool{pool}, jobs, batchParams{
		output:    flags.output,
		configDir: cfg.Output.Dir,
		staff:     flags.staff,
	})
	return printResults(results, out, flags.verbose)
}

// printResults reports per-order outcomes and returns the first failure so
// the caller can derive the exit code from it.
func printResults(results []receiptResult, out io.Writer, verbose bool) error {
	var firstErr error
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", r.orderPath, r.err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", r.orderPath, r.err)
			}
			continue
		}
		if verbose {
			fmt.Fprintf(out, "%s -> %s (%v)\n", r.orderPath, r.outputPath, r.duration.Round(time.Millisecond))
		} else {
			fmt.Fprintln(out, r.outputPath)
		}
	}
	if len(results) > 1 {
		fmt.Fprintf(out, "%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return firstErr
}

// serviceOptions assembles service options from flags and config, with flags
// taking precedence.
func serviceOptions(flags *cliFlags, cfg *config.Config, timeout time.Duration) []receiptpdf.Option {
	opts := []receiptpdf.Option{
		receiptpdf.WithTimeout(timeout),
	}
	if flags.verbose {
		opts = append(opts, receiptpdf.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	} else {
		opts = append(opts, receiptpdf.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	}

	if assetPath := firstNonEmpty(flags.assetPath, cfg.Assets.BasePath); assetPath != "" {
		opts = append(opts, receiptpdf.WithAssetPath(assetPath))
	}
	if imagesDir := firstNonEmpty(flags.imagesDir, cfg.Assets.ImagesDir); imagesDir != "" {
		opts = append(opts, receiptpdf.WithImagesDir(imagesDir))
	}
	if stylesDir := firstNonEmpty(flags.stylesDir, cfg.Assets.StylesDir); stylesDir != "" {
		opts = append(opts, receiptpdf.WithStylesDir(stylesDir))
	}
	if flags.imageStore != "" {
		opts = append(opts, receiptpdf.WithAssetStore(receiptpdf.DirResolver{Root: flags.imageStore}))
	}
	return opts
}

// resolveOutputPath picks the destination file: an explicit file path wins, a
// directory (explicit or from config) gets the canonical filename appended.
func resolveOutputPath(output, configDir, filename string) (string, error) {
	if output != "" {
		if strings.HasSuffix(output, string(filepath.Separator)) || isDir(output) {
			return filepath.Join(output, filename), nil
		}
		return output, nil
	}

	dir := configDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteReceipt, err)
	}
	return filepath.Join(dir, filename), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
