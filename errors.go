package receiptpdf

import "errors"

// Sentinel errors for receipt generation.
var (
	// ErrOrderNotFound indicates the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnauthorized indicates the caller does not own the order and has
	// no staff override.
	ErrUnauthorized = errors.New("not authorized to access order")

	// ErrTemplateEval indicates a template could not be parsed or evaluated:
	// malformed syntax, unknown helper name, or wrong helper arity. This is
	// a deployment defect, never silently defaulted.
	ErrTemplateEval = errors.New("template evaluation failed")

	// ErrTemplateNotCompiled indicates Render was called for a template name
	// that was never compiled.
	ErrTemplateNotCompiled = errors.New("template not compiled")

	// ErrUnknownBrand indicates a brand short code absent from the registry.
	ErrUnknownBrand = errors.New("unknown brand short code")

	// ErrLookupFailed indicates a payment rail could not be reached for
	// card details. Generation degrades to empty card fields.
	ErrLookupFailed = errors.New("payment details lookup failed")

	// ErrAssetNotFound indicates a product image is absent from the asset store.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrRenderFailure indicates the document conversion pass could not
	// produce output.
	ErrRenderFailure = errors.New("document rendering failed")

	// ErrStampFailure indicates the pagination pass could not produce output.
	ErrStampFailure = errors.New("pagination stamping failed")

	// Browser errors surfaced by the PDF converter.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)
