package receiptpdf

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order type tags.
const (
	OrderTypeStandard = "standard"
	OrderTypeWithdraw = "withdraw"
	OrderTypeSwap     = "swap"
)

// TransactionTypeSwap marks asset-exchange transactions in total computation.
const TransactionTypeSwap = "Swap"

// StatusSold is the fulfillment status required for a credential or key to
// appear on the receipt.
const StatusSold = "Sold"

// Currency codes and asset kind tags used by pricing rules.
const (
	CurrencyUSD = "USD"

	AssetKindFiat   = "F"
	AssetKindCrypto = "C"
)

// Order is the aggregate a receipt is rendered from. Monetary fields are
// decimals in the order's base (USD) amounts unless named Converted.
type Order struct {
	ID            int64
	UserID        int64
	CreatedAt     time.Time // UTC
	OrderTypeName string    // "standard", "withdraw", "swap", ...
	Status        string
	BrandCode     string // storefront short code, e.g. "CG"

	PaymentMethod PaymentMethod
	User          Customer

	CurrencyUsed   string          // settlement currency code
	CurrencyRate   decimal.Decimal // USD -> settlement conversion rate
	OriginalRate   decimal.Decimal // rate captured at order time
	TotalPrice     decimal.Decimal // raw order total in USD
	ConvertedTotal decimal.Decimal // total in settlement currency
	BalanceAmount  decimal.Decimal // store balance applied to the order

	// Crypto exchange presentation fields; zero values for fiat orders.
	TransactionType   string // "Swap" for asset exchanges
	BaseSymbol        string
	BaseCurrencyType  string // "F" fiat, "C" crypto, "S" stable
	BaseIsStable      bool
	TargetSymbol      string
	TargetCurrencyType string
	TargetIsStable    bool
	AmountBaseCrypto   decimal.Decimal
	AmountTargetCrypto decimal.Decimal
	ExchangeRate       decimal.Decimal

	LineItems []*OrderLineItem

	// Raw fulfillment records; the aggregator projects only Sold entries.
	Credentials []AccountCredential
	Keys        []GiftCardKey

	Transactions TransactionRefs
}

// PaymentMethod describes how the order was paid.
type PaymentMethod struct {
	Reference   string // rail reference, e.g. "paysafe", "bluesnap", "crypto"
	DisplayName string
	Address     string // payment address shown for crypto rails
	Status      string // payment status, e.g. "complete"
}

// Customer carries the billing identity printed on the receipt.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Address   string
	City      string
	State     string
	Country   string
	Zip       string
}

// TransactionRefs holds per-rail transaction references. At most one rail is
// consulted for card details, in the fixed precedence order documented on
// ContextBuilder.
type TransactionRefs struct {
	PaysafeAuthorizationID        string
	PaysafeMerchantRefNum         string
	BlueSnapTransactionID         string
	BlueSnapCheckoutTransactionID string
	CheckoutTransactionID         string
	SolidgateTransactionID        string
	NMITransactionID              string
}

// OrderLineItem is a single product entry within an order.
type OrderLineItem struct {
	ProductID       int64
	Name            string // full display name, may carry "Game | Skill" form
	ProductName     string
	CategoryName    string
	GameShortName   string
	Character       string
	Status          string
	Quantity        int64
	FulfilledAmount int64

	Price          decimal.Decimal  // stored price, not trusted for display
	UnitPrice      decimal.Decimal  // recomputed at context-build time
	TotalPrice     *decimal.Decimal // nil = excluded from subtotal
	TotalFees      *decimal.Decimal // nil = no fees
	ConvertedPrice decimal.Decimal  // price in settlement currency

	InsuranceID  *int64
	Insurance    *Insurance
	InsuranceFee *decimal.Decimal

	ImagePath string // asset store path for the product image
	IsSell    bool

	// IconSource is resolved by the aggregator before template evaluation:
	// a data URI for a fetched product image, the no-image icon when the
	// declared image could not be fetched, or empty when a static icon path
	// applies. Template helpers never perform I/O.
	IconSource string
}

// Insurance is the optional coverage attached to a line item.
type Insurance struct {
	ID          int64
	DisplayName string
}

// AccountCredential is a raw fulfillment record for an account product.
type AccountCredential struct {
	ProductID  int64
	Username   string
	Password   string
	InternalID string
	Status     string
}

// GiftCardKey is a raw fulfillment record for a gift card product.
type GiftCardKey struct {
	ProductID  int64
	Key        string
	InternalID string
	Status     string
}

// RedeemedCredential is the receipt projection of a sold account credential.
type RedeemedCredential struct {
	Username        string
	Password        string
	InternalID      string
	Product         *OrderLineItem
	FulfilledAmount int64
	Quantity        int64
	ConvertedPrice  decimal.Decimal
}

// RedeemedKey is the receipt projection of a sold gift card key.
type RedeemedKey struct {
	Key             string
	InternalID      string
	CharacterName   string
	Product         *OrderLineItem
	FulfilledAmount int64
	Quantity        int64
	ConvertedPrice  decimal.Decimal
}

// PaymentCardInfo is the card summary resolved from a payment rail.
type PaymentCardInfo struct {
	CardLast4 string
	CardType  string
}

// RenderContext is the read-only aggregate handed to template evaluation.
// It is built once per render and never mutated after handoff.
type RenderContext struct {
	Order *Order
	User  Customer

	LineItems []*OrderLineItem
	BuyItems  []*OrderLineItem
	SellItems []*OrderLineItem

	Credentials []*RedeemedCredential
	Keys        []*RedeemedKey

	IsSell   bool
	IsBuy    bool
	IsCustom bool

	CreatedAt time.Time // order creation in US Eastern time
	Card      PaymentCardInfo
}
