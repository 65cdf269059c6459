// Package receiptpdf renders financial receipt PDFs from order aggregates.
//
// # Quick Start
//
// Create a service with an order store and generate a receipt:
//
//	svc := receiptpdf.NewService(store, receiptpdf.CardProviders{})
//	defer svc.Close()
//
//	receipt, err := svc.Generate(ctx, orderID, userID, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(receipt.Filename, receipt.PDF, 0o600)
//
// # Rendering Pipeline
//
// Receipt generation follows these stages:
//
//  1. Context aggregation: load the order, authorize the caller, partition
//     line items, project sold credentials and keys, resolve card details
//     and product icons. All I/O happens in this stage.
//  2. Template evaluation: handlebars templates (mailgun/raymond) with the
//     receipt helper library; compiled templates are cached per name for the
//     process lifetime.
//  3. PDF rendering via headless Chrome (go-rod) at the fixed receipt page
//     geometry.
//  4. Pagination stamping: a second pass over the PDF (pdfcpu) overlays
//     "Page X of Y" on every page.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := receiptpdf.NewService(store, providers,
//	    receiptpdf.WithTimeout(2*time.Minute),
//	    receiptpdf.WithAssetPath("/opt/receipt-assets"),
//	    receiptpdf.WithImagesDir("/opt/receipt-assets/images/"),
//	)
//
// # Parallel Processing
//
// For batch generation, use ServicePool to manage multiple browser instances:
//
//	pool := receiptpdf.NewServicePool(4, newService)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set CI=true to disable the Chrome
// sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package receiptpdf
