package receiptpdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-receiptpdf/internal/assets"
)

// contextBuilder abstracts render context assembly to enable testing without
// a backing store.
type contextBuilder interface {
	Build(ctx context.Context, orderID, userID int64, staff bool) (*RenderContext, error)
}

// Compile-time interface check
var _ contextBuilder = (*ContextBuilder)(nil)

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout       time.Duration
	assetBasePath string // custom template/style overrides, empty = embedded only
	stylesDir     string // stylesheet URL prefix, empty = inline the embedded CSS
	imagesDir     string // image URL prefix, empty = leave tokens untouched
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-document rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("receiptpdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAssetPath points template and style loading at a directory tree.
// Assets found there override the embedded set; missing ones fall back.
func WithAssetPath(basePath string) Option {
	return func(s *Service) {
		s.cfg.assetBasePath = basePath
	}
}

// WithStylesDir sets the URL prefix substituted for the stylesheet token in
// rendered HTML. Without it the embedded stylesheet is inlined, which is what
// file-based headless rendering needs.
func WithStylesDir(dir string) Option {
	return func(s *Service) {
		s.cfg.stylesDir = dir
	}
}

// WithImagesDir sets the URL prefix substituted for image tokens in rendered
// HTML. Without it image tokens are left as-is.
func WithImagesDir(dir string) Option {
	return func(s *Service) {
		s.cfg.imagesDir = dir
	}
}

// WithAssetStore sets the resolver for stored product images. Without it
// receipts render with placeholder icons.
func WithAssetStore(resolver AssetResolver) Option {
	return func(s *Service) {
		s.assetStore = resolver
	}
}

// Receipt is a finished, paginated receipt document.
type Receipt struct {
	PDF      []byte
	Brand    string // lowercase storefront short code
	Filename string
}

// Service orchestrates the receipt pipeline: context assembly, template
// evaluation, HTML to PDF conversion, and pagination stamping.
type Service struct {
	cfg        serviceConfig
	logger     *slog.Logger
	engine     *Engine
	store      OrderStore
	cards      CardProviders
	assetStore AssetResolver

	builder      contextBuilder
	pdfConverter pdfConverter
	stamper      pageStamper

	prepareOnce sync.Once
	prepareErr  error
	style       string
}

// NewService creates a Service over an order store and per-rail card
// providers. Use options to customize behavior (e.g. WithTimeout).
func NewService(store OrderStore, cards CardProviders, opts ...Option) *Service {
	s := &Service{
		cfg:     serviceConfig{timeout: defaultTimeout},
		logger:  slog.Default(),
		engine:  NewEngine(),
		store:   store,
		cards:   cards,
		stamper: newPdfcpuStamper(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.builder == nil {
		s.builder = NewContextBuilder(store, cards, s.assetStore, s.logger)
	}
	// Create PDF converter if not injected (e.g., by tests)
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Generate renders the paginated receipt PDF for an order on behalf of
// userID. staff bypasses the ownership check.
//
// Returns ErrOrderNotFound, ErrUnauthorized, ErrTemplateEval,
// ErrRenderFailure, or ErrStampFailure depending on the failing stage.
func (s *Service) Generate(ctx context.Context, orderID, userID int64, staff bool) (*Receipt, error) {
	renderID := uuid.NewString()
	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}

	if err := s.prepare(); err != nil {
		return nil, err
	}

	rc, err := s.builder.Build(ctx, orderID, userID, staff)
	if err != nil {
		return nil, err
	}

	htmlContent, err := s.engine.Render(assets.TemplateReceipt, rc)
	if err != nil {
		return nil, fmt.Errorf("rendering receipt for order %d: %w", orderID, err)
	}
	htmlContent = s.rewriteAssetTokens(htmlContent)

	pdfBytes, err := s.pdfConverter.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("converting receipt for order %d: %w", orderID, err)
	}

	stamped, err := s.stamper.Stamp(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("stamping receipt for order %d: %w", orderID, err)
	}

	brand := strings.ToLower(rc.Order.BrandCode)
	receipt := &Receipt{
		PDF:      stamped,
		Brand:    brand,
		Filename: receiptFilename(brand, orderID, rc.CreatedAt),
	}

	s.logger.Info("receipt generated",
		"render_id", renderID,
		"order_id", orderID,
		"brand", brand,
		"bytes", len(receipt.PDF),
		"elapsed", time.Since(start))

	return receipt, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// prepare loads the template set, registers helpers and partials, and
// compiles the receipt template. Runs once; compile failures are deployment
// defects and stick for the service lifetime.
func (s *Service) prepare() error {
	s.prepareOnce.Do(func() {
		loader, err := assets.NewAssetResolver(s.cfg.assetBasePath)
		if err != nil {
			s.prepareErr = err
			return
		}

		set, err := assets.LoadReceiptSet(loader)
		if err != nil {
			s.prepareErr = err
			return
		}
		s.style, err = loader.LoadStyle(assets.StyleReceipt)
		if err != nil {
			s.prepareErr = err
			return
		}

		registerReceiptHelpers(s.engine)
		s.engine.RegisterPartial("orderItem", set.OrderItem)
		s.engine.RegisterPartial("stockItem", set.StockItem)
		s.prepareErr = s.engine.Compile(assets.TemplateReceipt, set.Receipt)
	})
	return s.prepareErr
}

// rewriteAssetTokens replaces the style and image location tokens in rendered
// HTML. With no styles dir configured the stylesheet link is replaced by the
// loaded CSS inline, so the document is self-contained for file rendering.
func (s *Service) rewriteAssetTokens(htmlContent string) string {
	if s.cfg.stylesDir != "" {
		htmlContent = strings.ReplaceAll(htmlContent, "__styles__/", s.cfg.stylesDir)
	} else {
		htmlContent = strings.Replace(htmlContent,
			`<link rel="stylesheet" href="__styles__/receipt.css">`,
			"<style>\n"+s.style+"\n</style>", 1)
	}
	if s.cfg.imagesDir != "" {
		htmlContent = strings.ReplaceAll(htmlContent, "__images__/", s.cfg.imagesDir)
	}
	return htmlContent
}

// receiptFilename builds the download name for a receipt document.
func receiptFilename(brand string, orderID int64, createdAt time.Time) string {
	return fmt.Sprintf("%s_order_%d_%s.pdf", brand, orderID, createdAt.Format("2006-01-02_15-04-05"))
}
