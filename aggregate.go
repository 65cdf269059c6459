package receiptpdf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// OrderStore loads order aggregates for rendering.
type OrderStore interface {
	Order(ctx context.Context, orderID int64) (*Order, error)
}

// PaymentDetailsProvider resolves the card summary behind one payment rail's
// transaction reference.
type PaymentDetailsProvider interface {
	LookupCard(ctx context.Context, transactionRef string) (PaymentCardInfo, error)
}

// CardProviders holds one provider per supported payment rail. Nil entries
// are skipped during lookup.
type CardProviders struct {
	Paysafe          PaymentDetailsProvider
	BlueSnap         PaymentDetailsProvider
	BlueSnapCheckout PaymentDetailsProvider
	Checkout         PaymentDetailsProvider
	Solidgate        PaymentDetailsProvider
	NMI              PaymentDetailsProvider
}

// automaticCardRails are the payment method references that settle through a
// card rail. Only orders paid through one of these trigger a card lookup;
// manual and crypto rails never carry card details.
var automaticCardRails = map[string]bool{
	"paysafe":           true,
	"bluesnap":          true,
	"bluesnap-checkout": true,
	"checkout":          true,
	"solidgate":         true,
	"nmi":               true,
}

// ContextBuilder assembles the render context for an order: authorization,
// item partitioning, fulfillment projections, card details, and product
// image prefetch. All I/O happens here so template evaluation stays pure.
type ContextBuilder struct {
	store  OrderStore
	cards  CardProviders
	assets AssetResolver
	logger *slog.Logger
}

// NewContextBuilder creates a builder over an order store and per-rail card
// providers. resolver may be nil when product images are not served.
func NewContextBuilder(store OrderStore, cards CardProviders, resolver AssetResolver, logger *slog.Logger) *ContextBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextBuilder{store: store, cards: cards, assets: resolver, logger: logger}
}

// Build loads an order and assembles its render context.
//
// Returns ErrOrderNotFound when the order does not exist and ErrUnauthorized
// when userID does not own the order and staff is false. Card lookup and
// image fetch failures degrade: the receipt renders without the card summary
// or with placeholder icons, and the failure is logged.
func (b *ContextBuilder) Build(ctx context.Context, orderID, userID int64, staff bool) (*RenderContext, error) {
	order, err := b.store.Order(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if order.UserID != userID && !staff {
		return nil, fmt.Errorf("%w: order %d", ErrUnauthorized, orderID)
	}

	var buyItems, sellItems []*OrderLineItem
	for _, item := range order.LineItems {
		item.UnitPrice = unitPrice(item)
		if item.IsSell {
			sellItems = append(sellItems, item)
		} else {
			buyItems = append(buyItems, item)
		}
	}

	isBuy := len(buyItems) > 0
	isSell := len(sellItems) > 0

	rc := &RenderContext{
		Order:       order,
		User:        order.User,
		LineItems:   order.LineItems,
		BuyItems:    buyItems,
		SellItems:   sellItems,
		Credentials: projectCredentials(order),
		Keys:        projectKeys(order),
		IsSell:      isSell,
		IsBuy:       isBuy,
		IsCustom:    isBuy && !isSell,
		CreatedAt:   order.CreatedAt.In(easternLocation()),
	}

	if automaticCardRails[order.PaymentMethod.Reference] {
		rc.Card = b.lookupCard(ctx, order)
	}

	b.prefetchIcons(ctx, order)
	return rc, nil
}

// unitPrice derives the displayed per-unit price from the item total; the
// stored Price field lags repricing and is not trusted for display.
func unitPrice(item *OrderLineItem) decimal.Decimal {
	if item.TotalPrice != nil && item.Quantity > 0 {
		return item.TotalPrice.Div(decimal.NewFromInt(item.Quantity))
	}
	return item.Price
}

// perUnitConverted derives the per-unit settlement price for fulfillment
// projections; the line item carries the full line amount.
func perUnitConverted(item *OrderLineItem) decimal.Decimal {
	if item.Quantity > 0 {
		return item.ConvertedPrice.Div(decimal.NewFromInt(item.Quantity))
	}
	return item.ConvertedPrice
}

// projectCredentials keeps only sold account credentials, joined to their
// line item for pricing and status display.
func projectCredentials(order *Order) []*RedeemedCredential {
	var out []*RedeemedCredential
	for i := range order.Credentials {
		cred := &order.Credentials[i]
		if cred.Status != StatusSold {
			continue
		}
		item := lineItemByProduct(order, cred.ProductID)
		if item == nil {
			continue
		}
		out = append(out, &RedeemedCredential{
			Username:        cred.Username,
			Password:        cred.Password,
			InternalID:      cred.InternalID,
			Product:         item,
			FulfilledAmount: item.FulfilledAmount,
			Quantity:        item.Quantity,
			ConvertedPrice:  perUnitConverted(item),
		})
	}
	return out
}

// projectKeys keeps only sold gift card keys, joined to their line item.
func projectKeys(order *Order) []*RedeemedKey {
	var out []*RedeemedKey
	for i := range order.Keys {
		key := &order.Keys[i]
		if key.Status != StatusSold {
			continue
		}
		item := lineItemByProduct(order, key.ProductID)
		if item == nil {
			continue
		}
		out = append(out, &RedeemedKey{
			Key:             key.Key,
			InternalID:      key.InternalID,
			CharacterName:   item.Character,
			Product:         item,
			FulfilledAmount: item.FulfilledAmount,
			Quantity:        item.Quantity,
			ConvertedPrice:  perUnitConverted(item),
		})
	}
	return out
}

func lineItemByProduct(order *Order, productID int64) *OrderLineItem {
	for _, item := range order.LineItems {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

// railLookup pairs a transaction reference with the provider that can
// resolve it. trigger marks the rail as the one that settled the order even
// when the reference alone would not (paysafe can settle under a merchant
// ref, bluesnap under the payment method reference with no stored ID).
type railLookup struct {
	rail     string
	ref      string
	trigger  bool
	provider PaymentDetailsProvider
}

// lookupCard resolves card details from the first triggered rail, in fixed
// precedence order, that has a configured provider. Exactly one rail is
// consulted; a failed lookup degrades to no card summary rather than falling
// through to the next rail.
func (b *ContextBuilder) lookupCard(ctx context.Context, order *Order) PaymentCardInfo {
	t := order.Transactions

	// Paysafe settles under either the authorization ID or the merchant
	// reference number.
	paysafeRef := t.PaysafeAuthorizationID
	if paysafeRef == "" {
		paysafeRef = t.PaysafeMerchantRefNum
	}

	rails := []railLookup{
		{"paysafe", paysafeRef, paysafeRef != "", b.cards.Paysafe},
		{"bluesnap", t.BlueSnapTransactionID,
			t.BlueSnapTransactionID != "" || order.PaymentMethod.Reference == "bluesnap", b.cards.BlueSnap},
		{"bluesnap-checkout", t.BlueSnapCheckoutTransactionID, t.BlueSnapCheckoutTransactionID != "", b.cards.BlueSnapCheckout},
		{"checkout", t.CheckoutTransactionID, t.CheckoutTransactionID != "", b.cards.Checkout},
		{"solidgate", t.SolidgateTransactionID, t.SolidgateTransactionID != "", b.cards.Solidgate},
		{"nmi", t.NMITransactionID, t.NMITransactionID != "", b.cards.NMI},
	}

	for _, r := range rails {
		if !r.trigger || r.provider == nil {
			continue
		}
		card, err := r.provider.LookupCard(ctx, r.ref)
		if err != nil {
			b.logger.Warn("card lookup failed, rendering without card details",
				"order_id", order.ID, "rail", r.rail, "error", fmt.Errorf("%w: %v", ErrLookupFailed, err))
			return PaymentCardInfo{}
		}
		return card
	}
	return PaymentCardInfo{}
}

// prefetchIcons resolves stored product images into data URIs on the line
// items so template evaluation needs no I/O. A missing or unreadable image
// pins IconSource to the no-image icon: the item declared a stored image, so
// it must not fall through to the static icon branches.
func (b *ContextBuilder) prefetchIcons(ctx context.Context, order *Order) {
	if b.assets == nil {
		return
	}
	for _, item := range order.LineItems {
		path := iconFetchPath(item)
		if path == "" {
			continue
		}
		uri, err := fetchDataURI(ctx, b.assets, path)
		if err != nil {
			b.logger.Warn("product image fetch failed, using placeholder icon",
				"order_id", order.ID, "product_id", item.ProductID, "path", path, "error", err)
			item.IconSource = iconNoImage
			continue
		}
		item.IconSource = uri
	}
}
