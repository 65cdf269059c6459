package assets

// Template and style names used by the receipt renderer.
const (
	TemplateReceipt   = "receipt"
	TemplateOrderItem = "order-item"
	TemplateStockItem = "stock-item"

	StyleReceipt = "receipt"
)

// AssetLoader defines the contract for loading CSS styles and handlebars
// templates. Implementations may load from embedded assets, filesystem, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a handlebars template by name (without .html
	// extension). Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// ReceiptSet bundles the three templates a receipt render needs: the page
// template and its two partials.
type ReceiptSet struct {
	Receipt   string
	OrderItem string
	StockItem string
}

// LoadReceiptSet loads the full receipt template set through the given loader.
func LoadReceiptSet(loader AssetLoader) (*ReceiptSet, error) {
	receipt, err := loader.LoadTemplate(TemplateReceipt)
	if err != nil {
		return nil, err
	}
	orderItem, err := loader.LoadTemplate(TemplateOrderItem)
	if err != nil {
		return nil, err
	}
	stockItem, err := loader.LoadTemplate(TemplateStockItem)
	if err != nil {
		return nil, err
	}
	return &ReceiptSet{
		Receipt:   receipt,
		OrderItem: orderItem,
		StockItem: stockItem,
	}, nil
}
