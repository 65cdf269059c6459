package receiptpdf

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mailgun/raymond/v2"
	"github.com/shopspring/decimal"

	"github.com/alnah/go-receiptpdf/internal/currency"
	"github.com/alnah/go-receiptpdf/internal/dateutil"
)

// Receipt helper library. Helpers are pure over the render context and their
// call-time parameters; all I/O (asset fetches, card lookups) is resolved
// into the context before evaluation. Helpers report failures by panicking
// with an error, which Engine.Render surfaces as ErrTemplateEval.
//
// Output strings, including the literal HTML fragments, are compared
// byte-for-byte by downstream rendering and must not be reformatted.

// Card brand aliases accepted by getCardImageType.
var (
	visaCardTypes            = []string{"vi", "ve", "vd", "visa"}
	masterCardTypes          = []string{"mc", "mastercard"}
	americanExpressCardTypes = []string{"am", "amex", "american express"}
	dinersCardTypes          = []string{"dc", "diners", "diners club"}
	discoverCardTypes        = []string{"di", "discover"}
)

var markupTagPattern = regexp.MustCompile("<.*?>")

// registerReceiptHelpers installs the receipt helper library on an engine.
func registerReceiptHelpers(e *Engine) {
	e.RegisterHelper("getSubtotal", helperGetSubtotal)
	e.RegisterHelper("getTotal", helperGetTotal)
	e.RegisterHelper("getInsuranceName", helperGetInsuranceName)
	e.RegisterHelper("getInsuranceFee", helperGetInsuranceFee)
	e.RegisterHelper("getIconClass", helperGetIconClass)
	e.RegisterHelper("getIcon", helperGetIcon)
	e.RegisterHelper("orderProductStatus", helperOrderProductStatus)
	e.RegisterHelper("price", helperPrice)
	e.RegisterHelper("cryptoPrice", helperCryptoPrice)
	e.RegisterHelper("ExchangePrice", helperExchangePrice)
	e.RegisterHelper("isExchange", helperIsExchange)
	e.RegisterHelper("helloMessage", helperHelloMessage)
	e.RegisterHelper("mainMessage", helperMainMessage)
	e.RegisterHelper("getCardImageType", helperGetCardImageType)
	e.RegisterHelper("getPaymentAddress", helperGetPaymentAddress)
	e.RegisterHelper("greaterThan", helperGreaterThan)
	e.RegisterHelper("equals", helperEquals)
	e.RegisterHelper("getCompanyName", helperGetCompanyName)
	e.RegisterHelper("getCompanyAddress", helperGetCompanyAddress)
	e.RegisterHelper("getCompanyEmailAddress", helperGetCompanyEmailAddress)
	e.RegisterHelper("getCompanyWebsiteAddress", helperGetCompanyWebsiteAddress)
	e.RegisterHelper("getUserAddressAndBillingInfo", helperGetUserAddressAndBillingInfo)
	e.RegisterHelper("getColoredLine", helperGetColoredLine)
	e.RegisterHelper("sanitizeHtml", helperSanitizeHTML)
	e.RegisterHelper("cgIf", helperCgIf)
	e.RegisterHelper("formatDate", helperFormatDate)
}

// helperParams returns the call parameters after arity validation.
// max < 0 means unbounded.
func helperParams(options *raymond.Options, name string, min, max int) []interface{} {
	p := options.Params()
	if len(p) < min || (max >= 0 && len(p) > max) {
		panic(fmt.Errorf("helper %q: expected %d to %d parameters, got %d", name, min, max, len(p)))
	}
	return p
}

// contextItems reads the order line items from the render context.
// Pricing helpers are invoked at the root template level where LineItems
// resolves; anywhere else is a template defect.
func contextItems(options *raymond.Options, helperName string) []*OrderLineItem {
	items, ok := options.Value("LineItems").([]*OrderLineItem)
	if !ok {
		panic(fmt.Errorf("helper %q: LineItems not in scope", helperName))
	}
	return items
}

// toDecimal converts a template parameter to a decimal. Template literals
// arrive as strings, context values as their native types.
func toDecimal(name string, v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			panic(fmt.Errorf("helper %q: parameter %q is not numeric", name, x))
		}
		return d
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case nil:
		return decimal.Zero
	default:
		panic(fmt.Errorf("helper %q: parameter type %T is not numeric", name, v))
	}
}

// toBool converts a template parameter to a bool using handlebars truthiness.
func toBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return raymond.IsTrue(v)
}

func helperGetSubtotal(options *raymond.Options) string {
	p := helperParams(options, "getSubtotal", 1, 1)
	orderTypeName := raymond.Str(p[0])
	items := contextItems(options, "getSubtotal")
	return currency.Round2(Subtotal(items, orderTypeName))
}

func helperGetTotal(options *raymond.Options) string {
	p := helperParams(options, "getTotal", 8, 8)
	items := contextItems(options, "getTotal")
	total := Total(items, TotalParams{
		Rate:            toDecimal("getTotal", p[0]),
		CurrencyCode:    raymond.Str(p[1]),
		ConvertedTotal:  toDecimal("getTotal", p[2]),
		BalanceAmount:   toDecimal("getTotal", p[3]),
		TransactionType: raymond.Str(p[4]),
		OriginalRate:    toDecimal("getTotal", p[5]),
		OrderTypeName:   raymond.Str(p[6]),
		TotalPrice:      toDecimal("getTotal", p[7]),
	})
	return currency.Round2(total)
}

func helperGetInsuranceName(options *raymond.Options) string {
	helperParams(options, "getInsuranceName", 0, 0)
	return InsuranceNames(contextItems(options, "getInsuranceName"))
}

func helperGetInsuranceFee(options *raymond.Options) string {
	helperParams(options, "getInsuranceFee", 0, 0)
	return currency.Round2(InsuranceFeeTotal(contextItems(options, "getInsuranceFee")))
}

func helperGetIconClass(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getIconClass", 1, 1)
	switch raymond.Str(p[0]) {
	case "Items", "Service":
		return "different-size"
	case "Accounts":
		return "account-img"
	default:
		return "icon-img"
	}
}

func helperGetIcon(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getIcon", 6, 6)
	return raymond.SafeString(resolveIcon(
		raymond.Str(p[0]), // prefetched icon source
		raymond.Str(p[1]), // display name
		raymond.Str(p[2]), // product name
		raymond.Str(p[3]), // category name
		raymond.Str(p[4]), // game short name
		raymond.Str(p[5]), // order status
	))
}

func helperOrderProductStatus(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "orderProductStatus", 1, 1)
	status := raymond.Str(p[0])

	switch {
	case strings.Contains(status, "refunded"):
		return "<span class='text-red'>Refunded</span>"
	case strings.Contains(status, "partially-refunded"):
		return "<span class='text-red'>Partially Refunded</span>"
	case strings.Contains(status, "refund-requested"):
		return "<span class='text-yellow'>Refund Pending</span>"
	case strings.Contains(status, "created"):
		return "<span class='text-yellow'>Created</span>"
	case strings.Contains(status, "rejected"):
		return "<span class='text-red'>Rejected</span>"
	}

	fulfilled := toDecimal("orderProductStatus", options.Value("FulfilledAmount"))
	quantity := toDecimal("orderProductStatus", options.Value("Quantity"))
	if fulfilled.GreaterThanOrEqual(quantity) {
		return "<span class='text-green'>Complete</span>"
	}
	return "<span class='text-yellow'>Pending</span>"
}

func helperPrice(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "price", 4, 7)
	params := PriceParams{
		Rate:         toDecimal("price", p[0]),
		CurrencyCode: raymond.Str(p[1]),
		Price:        toDecimal("price", p[2]),
		Conversion:   raymond.Str(p[3]),
	}
	if len(p) > 4 {
		params.OrderTypeName = raymond.Str(p[4])
	}
	if len(p) > 5 {
		fee := toDecimal("price", p[5])
		params.FeeTotal = &fee
	}
	if len(p) > 6 {
		rate := toDecimal("price", p[6])
		params.OriginalRate = &rate
	}

	formatted, err := DisplayPrice(params)
	if err != nil {
		panic(err)
	}
	return raymond.SafeString(formatted)
}

func helperCryptoPrice(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "cryptoPrice", 5, 5)
	return raymond.SafeString(CryptoPrice(
		toDecimal("cryptoPrice", p[0]),
		raymond.Str(p[1]),
		raymond.Str(p[2]),
		toBool(p[3]),
		toBool(p[4]),
	))
}

func helperExchangePrice(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "ExchangePrice", 4, 4)
	return raymond.SafeString(ExchangePrice(
		toDecimal("ExchangePrice", p[0]),
		raymond.Str(p[1]),
		toBool(p[2]),
		toBool(p[3]),
	))
}

func helperIsExchange(options *raymond.Options) string {
	p := helperParams(options, "isExchange", 2, 2)
	if raymond.Str(p[0]) == raymond.Str(p[1]) {
		return options.Fn()
	}
	return options.Inverse()
}

func helperHelloMessage(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "helloMessage", 2, 2)
	status := raymond.Str(p[0])
	firstName := raymond.Str(p[1])

	if strings.Contains(status, "rejected") {
		return raymond.SafeString(fmt.Sprintf("Hello, %s.", firstName))
	}
	return raymond.SafeString(fmt.Sprintf("Thanks for ordering, %s.", firstName))
}

func helperMainMessage(options *raymond.Options) string {
	p := helperParams(options, "mainMessage", 11, 11)
	shortCode := raymond.Str(p[0])
	status := raymond.Str(p[1])
	currencyUsed := raymond.Str(p[3])
	convertedTotal := toDecimal("mainMessage", p[4])
	cardLast4 := raymond.Str(p[5])
	baseSymbol := raymond.Str(p[6])
	amountBaseCrypto := toDecimal("mainMessage", p[7]).Round(moneyPlaces)
	orderTypeName := raymond.Str(p[8])
	totalPrice := toDecimal("mainMessage", p[9])
	originalRate := toDecimal("mainMessage", p[10])

	brand, err := BrandByCode(shortCode)
	if err != nil {
		panic(err)
	}
	companyName := brand.CompanyName

	if orderTypeName == OrderTypeWithdraw && currencyUsed != CurrencyUSD {
		convertedTotal = totalPrice.Div(originalRate)
	}

	symbol := baseSymbol
	if shortCode != BrandCX {
		symbol, err = currency.Symbol(currencyUsed)
		if err != nil {
			panic(err)
		}
	}

	amount := convertedTotal
	if !convertedTotal.IsPositive() {
		amount = amountBaseCrypto
	}

	if strings.Contains(status, "rejected") {
		if cardLast4 != "" {
			return fmt.Sprintf("Your order attempt at %s failed to process. A temporary hold of %s%s was placed on your payment method. "+
				"This is not a charge and will be removed. It should disappear from your bank statement shortly.",
				companyName, symbol, currency.Round2(amount))
		}
		return fmt.Sprintf("Your order attempt at %s failed to process. Any temporary hold or authorization in the amount of %s%s "+
			"on your payment method should disappear from your statement shortly.",
			companyName, symbol, currency.Round2(amount))
	}

	if cardLast4 != "" {
		return fmt.Sprintf("Here's your receipt for %s The total amount processed is %s%s and has been charged to payment method **** %s.",
			companyName, symbol, currency.Round2(amount), cardLast4)
	}

	// Without a card on file, CG receipts always show the converted total,
	// sign-corrected; other brands fall back to the crypto base amount when
	// the converted total is not positive.
	amount = amountBaseCrypto
	if convertedTotal.IsPositive() || shortCode == BrandCG {
		amount = convertedTotal.Abs()
	}
	return fmt.Sprintf("Here's your receipt for %s The total amount processed is %s%s.",
		companyName, symbol, currency.Round2(amount))
}

func helperGetCardImageType(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getCardImageType", 2, 2)
	cardType := strings.ToLower(raymond.Str(p[1]))

	pixels := 32
	icon := "__images__/payment-methods/generic.png"

	switch {
	case slices.Contains(visaCardTypes, cardType):
		pixels = 42
		icon = "__images__/payment-methods/visa.png"
	case slices.Contains(masterCardTypes, cardType):
		icon = "__images__/payment-methods/mastercard.png"
	case slices.Contains(americanExpressCardTypes, cardType):
		pixels = 42
		icon = "__images__/payment-methods/amex.png"
	case slices.Contains(dinersCardTypes, cardType):
		icon = "__images__/payment-methods/diners.png"
	case slices.Contains(discoverCardTypes, cardType):
		icon = "__images__/payment-methods/discover.png"
	}

	return raymond.SafeString(fmt.Sprintf("<img class='mb-1 me-2' src='%s' style='width: %dpx;' alt='credit card icon' loading='lazy'>", icon, pixels))
}

func helperGetPaymentAddress(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getPaymentAddress", 3, 3)
	paymentAddress := raymond.Str(p[0])
	reference := raymond.Str(p[1])
	status := raymond.Str(p[2])

	if paymentAddress != "" && reference != "crypto" || reference == "crypto" && strings.Contains(status, "complete") {
		return raymond.SafeString(fmt.Sprintf("<span class='font-14 ms-2'>Payment Address: %s</span>", paymentAddress))
	}
	return ""
}

func helperGreaterThan(options *raymond.Options) string {
	p := helperParams(options, "greaterThan", 2, 2)
	value := toDecimal("greaterThan", p[1])

	var custom decimal.Decimal
	if s, ok := p[0].(string); ok && s == "InsuranceFee" {
		custom = InsuranceFeeTotal(contextItems(options, "greaterThan"))
	} else {
		custom = toDecimal("greaterThan", p[0])
	}

	if custom.GreaterThan(value) {
		return options.Fn()
	}
	return options.Inverse()
}

func helperEquals(options *raymond.Options) string {
	p := helperParams(options, "equals", 2, 2)
	if raymond.Str(p[0]) == raymond.Str(p[1]) {
		return options.Fn()
	}
	return options.Inverse()
}

func helperGetCompanyName(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getCompanyName", 1, 1)
	brand, err := BrandByCode(raymond.Str(p[0]))
	if err != nil {
		panic(err)
	}
	return raymond.SafeString(brand.CompanyName)
}

func helperGetCompanyAddress(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getCompanyAddress", 1, 1)
	return raymond.SafeString(brandOrDefault(raymond.Str(p[0])).AddressHTML)
}

func helperGetCompanyEmailAddress(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getCompanyEmailAddress", 1, 1)
	brand, err := BrandByCode(raymond.Str(p[0]))
	if err != nil {
		panic(err)
	}
	return raymond.SafeString(brand.SupportEmail)
}

func helperGetCompanyWebsiteAddress(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getCompanyWebsiteAddress", 1, 1)
	brand, err := BrandByCode(raymond.Str(p[0]))
	if err != nil {
		panic(err)
	}
	return raymond.SafeString(fmt.Sprintf("<img class='company-logo' src='__images__/company-logos/%s.png' alt='company logo' loading='lazy'/><br><div>%s</div>",
		brand.Logo, brand.WebsiteURL))
}

func helperGetUserAddressAndBillingInfo(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getUserAddressAndBillingInfo", 5, 5)
	address := raymond.Str(p[0])

	var billing []string
	for _, part := range p[1:] {
		if s := raymond.Str(part); s != "" {
			billing = append(billing, s)
		}
	}
	unified := strings.Join(billing, ", ")

	if address != "" {
		return raymond.SafeString(address + "<br>" + unified)
	}
	return raymond.SafeString(unified)
}

func helperGetColoredLine(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "getColoredLine", 1, 1)
	line := brandOrDefault(raymond.Str(p[0])).ColoredLine
	return raymond.SafeString(fmt.Sprintf("<div class='%s'></div>", line))
}

func helperSanitizeHTML(options *raymond.Options) raymond.SafeString {
	p := helperParams(options, "sanitizeHtml", 1, 1)
	value := markupTagPattern.ReplaceAllString(raymond.Str(p[0]), "")
	return raymond.SafeString(strings.TrimSpace(value))
}

func helperCgIf(options *raymond.Options) string {
	p := helperParams(options, "cgIf", 2, 2)
	credentials, _ := p[0].([]*RedeemedCredential)
	keys, _ := p[1].([]*RedeemedKey)

	if len(credentials) > 0 || len(keys) > 0 {
		return options.Fn()
	}
	return options.Inverse()
}

func helperFormatDate(options *raymond.Options) string {
	p := helperParams(options, "formatDate", 1, 1)
	t, ok := p[0].(time.Time)
	if !ok {
		panic(fmt.Errorf("helper %q: parameter is not a time value", "formatDate"))
	}
	return dateutil.FormatReceipt(t)
}
