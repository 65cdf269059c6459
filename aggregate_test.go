package receiptpdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// fakeStore returns a fixed order for any ID it knows.
type fakeStore struct {
	orders map[int64]*Order
	err    error
}

func (s *fakeStore) Order(_ context.Context, orderID int64) (*Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders[orderID], nil
}

// fakeProvider records lookups and returns a fixed card or error.
type fakeProvider struct {
	card  PaymentCardInfo
	err   error
	calls []string
}

func (p *fakeProvider) LookupCard(_ context.Context, ref string) (PaymentCardInfo, error) {
	p.calls = append(p.calls, ref)
	if p.err != nil {
		return PaymentCardInfo{}, p.err
	}
	return p.card, nil
}

// fakeAssets serves fixed bytes per path.
type fakeAssets struct {
	files map[string][]byte
	calls []string
}

func (a *fakeAssets) Fetch(_ context.Context, path string) ([]byte, error) {
	a.calls = append(a.calls, path)
	data, ok := a.files[path]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return data, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder() *Order {
	return &Order{
		ID:        42,
		UserID:    7,
		CreatedAt: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		Status:    "complete",
		BrandCode: BrandCG,
		PaymentMethod: PaymentMethod{
			Reference: "paysafe",
		},
		User: Customer{FirstName: "Ada"},
		LineItems: []*OrderLineItem{
			{ProductID: 1, TotalPrice: decPtr("20.00"), Quantity: 4},
			{ProductID: 2, TotalPrice: decPtr("5.00"), Quantity: 1, IsSell: true},
		},
	}
}

func newTestBuilder(order *Order, cards CardProviders, assets AssetResolver) *ContextBuilder {
	store := &fakeStore{orders: map[int64]*Order{}}
	if order != nil {
		store.orders[order.ID] = order
	}
	return NewContextBuilder(store, cards, assets, quietLogger())
}

func TestBuildNotFound(t *testing.T) {
	b := newTestBuilder(nil, CardProviders{}, nil)
	_, err := b.Build(context.Background(), 99, 7, false)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Build() error = %v, want ErrOrderNotFound", err)
	}
}

func TestBuildAuthorization(t *testing.T) {
	order := testOrder()
	b := newTestBuilder(order, CardProviders{}, nil)

	if _, err := b.Build(context.Background(), order.ID, 999, false); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Build() as stranger error = %v, want ErrUnauthorized", err)
	}
	if _, err := b.Build(context.Background(), order.ID, order.UserID, false); err != nil {
		t.Errorf("Build() as owner error = %v", err)
	}
	if _, err := b.Build(context.Background(), order.ID, 999, true); err != nil {
		t.Errorf("Build() as staff error = %v", err)
	}
}

func TestBuildStoreError(t *testing.T) {
	b := NewContextBuilder(&fakeStore{err: errors.New("db down")}, CardProviders{}, nil, quietLogger())
	_, err := b.Build(context.Background(), 1, 1, false)
	if err == nil {
		t.Fatal("Build() expected error")
	}
}

func TestBuildPartitionsItems(t *testing.T) {
	order := testOrder()
	b := newTestBuilder(order, CardProviders{}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(rc.BuyItems) != 1 || len(rc.SellItems) != 1 {
		t.Fatalf("partition = %d buy, %d sell", len(rc.BuyItems), len(rc.SellItems))
	}
	if !rc.IsBuy || !rc.IsSell || rc.IsCustom {
		t.Errorf("flags = buy %v sell %v custom %v", rc.IsBuy, rc.IsSell, rc.IsCustom)
	}
}

func TestBuildCustomFlag(t *testing.T) {
	order := testOrder()
	order.LineItems = []*OrderLineItem{{ProductID: 1, TotalPrice: decPtr("20.00"), Quantity: 1}}
	b := newTestBuilder(order, CardProviders{}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !rc.IsCustom {
		t.Error("buy-only order should be custom")
	}
}

func TestBuildRecomputesUnitPrice(t *testing.T) {
	order := testOrder()
	order.LineItems = []*OrderLineItem{
		{ProductID: 1, TotalPrice: decPtr("20.00"), Quantity: 4, Price: dec("999")},
		{ProductID: 2, Quantity: 0, Price: dec("3.50")},
	}
	b := newTestBuilder(order, CardProviders{}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got := rc.LineItems[0].UnitPrice; !got.Equal(dec("5.00")) {
		t.Errorf("UnitPrice = %s, want 5", got)
	}
	// Without a usable total the stored price stands.
	if got := rc.LineItems[1].UnitPrice; !got.Equal(dec("3.50")) {
		t.Errorf("UnitPrice fallback = %s, want 3.50", got)
	}
}

func TestBuildConvertsCreatedAtToEastern(t *testing.T) {
	order := testOrder()
	b := newTestBuilder(order, CardProviders{}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !rc.CreatedAt.Equal(order.CreatedAt) {
		t.Error("CreatedAt changed instant, not just zone")
	}
	if rc.CreatedAt.Location() == time.UTC {
		t.Error("CreatedAt still in UTC")
	}
}

func TestBuildProjectsSoldFulfillment(t *testing.T) {
	order := testOrder()
	order.LineItems[0].Character = "Hero"
	order.LineItems[0].ConvertedPrice = dec("20.00")
	order.Credentials = []AccountCredential{
		{ProductID: 1, Username: "acct1", Status: StatusSold},
		{ProductID: 1, Username: "acct2", Status: "Reserved"},
		{ProductID: 404, Username: "orphan", Status: StatusSold},
	}
	order.Keys = []GiftCardKey{
		{ProductID: 1, Key: "AAAA-BBBB", Status: StatusSold},
		{ProductID: 1, Key: "CCCC-DDDD", Status: "Revoked"},
	}
	b := newTestBuilder(order, CardProviders{}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(rc.Credentials) != 1 || rc.Credentials[0].Username != "acct1" {
		t.Fatalf("Credentials = %+v, want only sold acct1", rc.Credentials)
	}
	if len(rc.Keys) != 1 || rc.Keys[0].Key != "AAAA-BBBB" {
		t.Fatalf("Keys = %+v, want only sold key", rc.Keys)
	}
	if rc.Keys[0].CharacterName != "Hero" {
		t.Errorf("CharacterName = %q, want joined from line item", rc.Keys[0].CharacterName)
	}

	// A quantity-4 line item lists each sold unit at a quarter of the line
	// amount, not the full line total.
	if got := rc.Credentials[0].ConvertedPrice; !got.Equal(dec("5.00")) {
		t.Errorf("credential ConvertedPrice = %s, want per-unit 5", got)
	}
	if got := rc.Keys[0].ConvertedPrice; !got.Equal(dec("5.00")) {
		t.Errorf("key ConvertedPrice = %s, want per-unit 5", got)
	}
}

func TestBuildProjectionKeepsLineAmountWithoutQuantity(t *testing.T) {
	order := testOrder()
	order.LineItems = []*OrderLineItem{
		{ProductID: 1, Quantity: 0, ConvertedPrice: dec("12.00")},
	}
	order.Keys = []GiftCardKey{{ProductID: 1, Key: "AAAA-BBBB", Status: StatusSold}}
	b := newTestBuilder(order, CardProviders{}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := rc.Keys[0].ConvertedPrice; !got.Equal(dec("12.00")) {
		t.Errorf("key ConvertedPrice = %s, want line amount without a usable quantity", got)
	}
}

func TestBuildCardPrecedence(t *testing.T) {
	order := testOrder()
	order.Transactions = TransactionRefs{
		BlueSnapTransactionID: "bs-1",
		CheckoutTransactionID: "ck-1",
	}

	bluesnap := &fakeProvider{card: PaymentCardInfo{CardLast4: "1111", CardType: "vi"}}
	checkout := &fakeProvider{card: PaymentCardInfo{CardLast4: "2222", CardType: "mc"}}
	b := newTestBuilder(order, CardProviders{BlueSnap: bluesnap, Checkout: checkout}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if rc.Card.CardLast4 != "1111" {
		t.Errorf("Card = %+v, want the higher-precedence rail", rc.Card)
	}
	if len(checkout.calls) != 0 {
		t.Errorf("lower-precedence rail was consulted: %v", checkout.calls)
	}
}

func TestBuildCardPaysafeMerchantRef(t *testing.T) {
	order := testOrder()
	order.Transactions = TransactionRefs{PaysafeMerchantRefNum: "mr-9"}
	paysafe := &fakeProvider{card: PaymentCardInfo{CardLast4: "1111", CardType: "vi"}}
	b := newTestBuilder(order, CardProviders{Paysafe: paysafe}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if rc.Card.CardLast4 != "1111" {
		t.Errorf("Card = %+v, want lookup keyed on the merchant ref", rc.Card)
	}
	if len(paysafe.calls) != 1 || paysafe.calls[0] != "mr-9" {
		t.Errorf("paysafe calls = %v, want the merchant ref", paysafe.calls)
	}
}

func TestBuildCardBlueSnapByPaymentReference(t *testing.T) {
	order := testOrder()
	order.PaymentMethod.Reference = "bluesnap"
	order.Transactions = TransactionRefs{}
	bluesnap := &fakeProvider{card: PaymentCardInfo{CardLast4: "4444", CardType: "mc"}}
	b := newTestBuilder(order, CardProviders{BlueSnap: bluesnap}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if rc.Card.CardLast4 != "4444" {
		t.Errorf("Card = %+v, want bluesnap triggered by the payment reference", rc.Card)
	}
	if len(bluesnap.calls) != 1 {
		t.Errorf("bluesnap calls = %v, want exactly one lookup", bluesnap.calls)
	}
}

func TestBuildCardSkipsMissingProvider(t *testing.T) {
	order := testOrder()
	order.Transactions = TransactionRefs{
		PaysafeAuthorizationID: "ps-1",
		NMITransactionID:       "nmi-1",
	}
	nmi := &fakeProvider{card: PaymentCardInfo{CardLast4: "3333"}}
	b := newTestBuilder(order, CardProviders{NMI: nmi}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if rc.Card.CardLast4 != "3333" {
		t.Errorf("Card = %+v, want fallthrough past unconfigured rail", rc.Card)
	}
}

func TestBuildCardLookupFailureDegrades(t *testing.T) {
	order := testOrder()
	order.Transactions = TransactionRefs{
		PaysafeAuthorizationID: "ps-1",
		NMITransactionID:       "nmi-1",
	}
	paysafe := &fakeProvider{err: errors.New("rail down")}
	nmi := &fakeProvider{card: PaymentCardInfo{CardLast4: "3333"}}
	b := newTestBuilder(order, CardProviders{Paysafe: paysafe, NMI: nmi}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if rc.Card != (PaymentCardInfo{}) {
		t.Errorf("Card = %+v, want empty after failed lookup", rc.Card)
	}
	if len(nmi.calls) != 0 {
		t.Errorf("failed lookup fell through to next rail: %v", nmi.calls)
	}
}

func TestBuildCardSkippedForManualRails(t *testing.T) {
	order := testOrder()
	order.PaymentMethod.Reference = "crypto"
	order.Transactions = TransactionRefs{PaysafeAuthorizationID: "ps-1"}
	paysafe := &fakeProvider{card: PaymentCardInfo{CardLast4: "1111"}}
	b := newTestBuilder(order, CardProviders{Paysafe: paysafe}, nil)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if rc.Card != (PaymentCardInfo{}) || len(paysafe.calls) != 0 {
		t.Errorf("card lookup ran for a non-card rail: card %+v calls %v", rc.Card, paysafe.calls)
	}
}

// Minimal valid PNG header; enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestBuildPrefetchesProductImages(t *testing.T) {
	order := testOrder()
	order.LineItems = []*OrderLineItem{
		{ProductID: 1, CategoryName: "Gift Cards", ImagePath: "products/steam.png", Quantity: 1},
		{ProductID: 2, Name: "OSRS | Mining", CategoryName: "Skill", Quantity: 1},
	}
	store := &fakeAssets{files: map[string][]byte{"products/steam.png": pngBytes}}
	b := newTestBuilder(order, CardProviders{}, store)

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got := rc.LineItems[0].IconSource; !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("IconSource = %q, want png data URI", got)
	}
	if rc.LineItems[1].IconSource != "" {
		t.Errorf("skill item fetched an image: %q", rc.LineItems[1].IconSource)
	}
	if len(store.calls) != 1 {
		t.Errorf("fetch calls = %v, want exactly the stored-image item", store.calls)
	}
}

func TestBuildPrefetchFailureLeavesPlaceholder(t *testing.T) {
	order := testOrder()
	order.LineItems = []*OrderLineItem{
		{ProductID: 1, CategoryName: "Gift Cards", ImagePath: "products/missing.png", Quantity: 1},
	}
	b := newTestBuilder(order, CardProviders{}, &fakeAssets{})

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	// The item declared a stored image, so a failed fetch must not fall
	// through to the static icon branches.
	if rc.LineItems[0].IconSource != iconNoImage {
		t.Errorf("IconSource = %q, want the no-image icon on fetch failure", rc.LineItems[0].IconSource)
	}
}

func TestBuildPrefetchFailurePinsCurrencyToNoImage(t *testing.T) {
	order := testOrder()
	order.LineItems = []*OrderLineItem{
		{ProductID: 1, CategoryName: "Currency", GameShortName: "WOWL", ImagePath: "products/gold.png", Quantity: 1},
	}
	b := newTestBuilder(order, CardProviders{}, &fakeAssets{})

	rc, err := b.Build(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	item := rc.LineItems[0]
	got := resolveIcon(item.IconSource, item.Name, item.ProductName, item.CategoryName, item.GameShortName, order.Status)
	if got != iconNoImage {
		t.Errorf("resolveIcon after failed fetch = %q, want no-image, not the era icon", got)
	}
}
