package main

import (
	"errors"
	"os"

	receiptpdf "github.com/alnah/go-receiptpdf"
	"github.com/alnah/go-receiptpdf/internal/config"
)

// Exit codes for the receiptpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Receipt generated
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, fixture, or authorization
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs    = errors.New("usage: receiptpdf --order <order.yaml> [flags]")
	ErrReadOrder      = errors.New("failed to read order fixture")
	ErrParseOrder     = errors.New("failed to parse order fixture")
	ErrWriteReceipt   = errors.New("failed to write receipt")
	ErrInvalidTimeout = errors.New("invalid timeout value")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, receiptpdf.ErrBrowserConnect) ||
		errors.Is(err, receiptpdf.ErrPageCreate) ||
		errors.Is(err, receiptpdf.ErrPageLoad) ||
		errors.Is(err, receiptpdf.ErrRenderFailure) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadOrder) ||
		errors.Is(err, ErrWriteReceipt) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrParseOrder) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, receiptpdf.ErrUnknownBrand) ||
		errors.Is(err, receiptpdf.ErrUnauthorized) ||
		errors.Is(err, receiptpdf.ErrOrderNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}
