package receiptpdf

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alnah/go-receiptpdf/internal/currency"
)

// Pricing rules for receipt documents. These functions are pure: they
// operate on line items and explicit parameters, never on hidden state.
// The withdraw and swap branches are load-bearing business rules; their
// precedence must not be reordered.

// moneyPlaces is the rounding applied to intermediate totals.
const moneyPlaces = 2

// accumulateItems sums line items that have a known total price: sell items
// subtract their total, buy items add total minus fees. The result is the
// absolute value of the accumulation.
func accumulateItems(items []*OrderLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if item.TotalPrice == nil {
			continue
		}
		if item.IsSell {
			sum = sum.Sub(*item.TotalPrice)
			continue
		}
		fees := decimal.Zero
		if item.TotalFees != nil {
			fees = *item.TotalFees
		}
		sum = sum.Add(item.TotalPrice.Sub(fees))
	}
	return sum.Abs()
}

// Subtotal computes the receipt subtotal over line items. Items without a
// known total price are excluded. For withdraw orders with at least one
// line item, the subtotal is instead the converted price of the first item
// in canonical order.
func Subtotal(items []*OrderLineItem, orderTypeName string) decimal.Decimal {
	subtotal := accumulateItems(items)
	if orderTypeName == OrderTypeWithdraw && len(items) > 0 {
		subtotal = items[0].ConvertedPrice
	}
	return subtotal
}

// TotalParams carries the inputs to Total. Monetary values arrive unrounded;
// Total applies two-decimal rounding where the rules require it.
type TotalParams struct {
	Rate            decimal.Decimal
	CurrencyCode    string
	ConvertedTotal  decimal.Decimal
	BalanceAmount   decimal.Decimal
	TransactionType string
	OriginalRate    decimal.Decimal
	OrderTypeName   string
	TotalPrice      decimal.Decimal // raw order total
}

// Total computes the charged total for the receipt.
//
// Rule order is significant: balance deduction first, then the swap
// recompute-if-zero fallback, then the withdraw override, and finally the
// absolute value.
func Total(items []*OrderLineItem, p TotalParams) decimal.Decimal {
	converted := p.ConvertedTotal.Round(moneyPlaces)
	balance := p.BalanceAmount.Round(moneyPlaces)

	if balance.IsPositive() {
		if p.CurrencyCode != CurrencyUSD {
			balance = balance.Mul(p.OriginalRate).Round(moneyPlaces)
		}
		converted = converted.Sub(balance)
	}

	if converted.IsZero() && p.TransactionType == TransactionTypeSwap {
		converted = accumulateItems(items)
	}

	if p.OrderTypeName == OrderTypeWithdraw {
		// Withdraw payouts ignore any balance deduction; the total is the
		// raw order total expressed in the settlement currency.
		if p.CurrencyCode != CurrencyUSD {
			converted = p.TotalPrice.Div(p.OriginalRate)
		} else {
			converted = p.TotalPrice
		}
	}

	return converted.Abs()
}

// InsuranceFeeTotal sums insurance fees over line items that carry one.
func InsuranceFeeTotal(items []*OrderLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.InsuranceFee != nil {
			total = total.Add(*item.InsuranceFee)
		}
	}
	return total
}

// InsuranceNames joins the display names of attached insurances with ", ".
func InsuranceNames(items []*OrderLineItem) string {
	var names []string
	for _, item := range items {
		if item.InsuranceID != nil && item.Insurance != nil {
			names = append(names, item.Insurance.DisplayName)
		}
	}
	return strings.Join(names, ", ")
}

// PriceParams carries the inputs to DisplayPrice. OrderTypeName, FeeTotal,
// and OriginalRate are the optional trailing parameters of the template
// helper; nil pointers mean "not provided".
type PriceParams struct {
	Rate          decimal.Decimal
	CurrencyCode  string
	Price         decimal.Decimal
	Conversion    string // "convert" multiplies by Rate for non-USD orders
	OrderTypeName string
	FeeTotal      *decimal.Decimal
	OriginalRate  *decimal.Decimal
}

// DisplayPrice formats a monetary value with its currency symbol.
// Returns currency.ErrUnknownCurrency for codes outside the symbol table.
func DisplayPrice(p PriceParams) (string, error) {
	price := p.Price.Round(moneyPlaces)

	if p.Conversion == "convert" && p.CurrencyCode != CurrencyUSD && p.OrderTypeName != OrderTypeWithdraw {
		price = price.Mul(p.Rate)
	}

	if p.OrderTypeName == OrderTypeWithdraw && p.FeeTotal != nil && p.OriginalRate != nil {
		price = p.FeeTotal.Div(*p.OriginalRate)
	}

	symbol, err := currency.Symbol(p.CurrencyCode)
	if err != nil {
		return "", fmt.Errorf("formatting price: %w", err)
	}

	return symbol + currency.Round2(price), nil
}

// CryptoPrice formats a crypto/fiat amount or rate. When isRate is set the
// value is inverted unless the asset kind is crypto ("C"). Fiat-like kinds
// place the symbol before the value, all others after.
func CryptoPrice(value decimal.Decimal, symbol, assetKind string, isStable, isRate bool) string {
	if isRate && assetKind != AssetKindCrypto {
		value = decimal.NewFromInt(1).Div(value)
	}

	formatted := currency.RoundCrypto(value, isStable)
	if assetKind == AssetKindFiat {
		return symbol + formatted
	}
	return formatted + " " + symbol
}

// ExchangePrice formats the receiving side of an asset exchange. When
// swapRate is set the value is inverted.
func ExchangePrice(value decimal.Decimal, symbol string, isStable, swapRate bool) string {
	if swapRate {
		value = decimal.NewFromInt(1).Div(value)
	}
	return currency.RoundCrypto(value, isStable) + " " + symbol
}
