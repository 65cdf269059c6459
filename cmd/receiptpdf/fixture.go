package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"

	receiptpdf "github.com/alnah/go-receiptpdf"
)

// Order fixture documents. The YAML shape mirrors how orders arrive from the
// commerce backend; monetary values are written as plain numbers and converted
// to decimals here, at the boundary.

type orderDoc struct {
	ID            int64     `yaml:"id"`
	UserID        int64     `yaml:"userId"`
	CreatedAt     time.Time `yaml:"createdAt"`
	OrderType     string    `yaml:"orderType"`
	Status        string    `yaml:"status"`
	Brand         string    `yaml:"brand"`
	PaymentMethod struct {
		Reference   string `yaml:"reference"`
		DisplayName string `yaml:"displayName"`
		Address     string `yaml:"address"`
		Status      string `yaml:"status"`
	} `yaml:"paymentMethod"`
	User struct {
		FirstName string `yaml:"firstName"`
		LastName  string `yaml:"lastName"`
		Email     string `yaml:"email"`
		Address   string `yaml:"address"`
		City      string `yaml:"city"`
		State     string `yaml:"state"`
		Country   string `yaml:"country"`
		Zip       string `yaml:"zip"`
	} `yaml:"user"`

	CurrencyUsed    string  `yaml:"currencyUsed"`
	CurrencyRate    float64 `yaml:"currencyRate"`
	OriginalRate    float64 `yaml:"originalRate"`
	TotalPrice      float64 `yaml:"totalPrice"`
	ConvertedTotal  float64 `yaml:"convertedTotal"`
	BalanceAmount   float64 `yaml:"balanceAmount"`
	TransactionType string  `yaml:"transactionType"`

	Exchange *exchangeDoc `yaml:"exchange"`

	Items       []itemDoc       `yaml:"items"`
	Credentials []credentialDoc `yaml:"credentials"`
	Keys        []keyDoc        `yaml:"keys"`

	Transactions struct {
		PaysafeAuthorizationID        string `yaml:"paysafeAuthorizationId"`
		PaysafeMerchantRefNum         string `yaml:"paysafeMerchantRefNum"`
		BlueSnapTransactionID         string `yaml:"bluesnapTransactionId"`
		BlueSnapCheckoutTransactionID string `yaml:"bluesnapCheckoutTransactionId"`
		CheckoutTransactionID         string `yaml:"checkoutTransactionId"`
		SolidgateTransactionID        string `yaml:"solidgateTransactionId"`
		NMITransactionID              string `yaml:"nmiTransactionId"`
	} `yaml:"transactions"`
}

type exchangeDoc struct {
	BaseSymbol         string  `yaml:"baseSymbol"`
	BaseCurrencyType   string  `yaml:"baseCurrencyType"`
	BaseIsStable       bool    `yaml:"baseIsStable"`
	TargetSymbol       string  `yaml:"targetSymbol"`
	TargetCurrencyType string  `yaml:"targetCurrencyType"`
	TargetIsStable     bool    `yaml:"targetIsStable"`
	AmountBase         float64 `yaml:"amountBase"`
	AmountTarget       float64 `yaml:"amountTarget"`
	Rate               float64 `yaml:"rate"`
}

type itemDoc struct {
	ProductID       int64    `yaml:"productId"`
	Name            string   `yaml:"name"`
	ProductName     string   `yaml:"productName"`
	CategoryName    string   `yaml:"categoryName"`
	GameShortName   string   `yaml:"gameShortName"`
	Character       string   `yaml:"character"`
	Status          string   `yaml:"status"`
	Quantity        int64    `yaml:"quantity"`
	FulfilledAmount int64    `yaml:"fulfilledAmount"`
	Price           float64  `yaml:"price"`
	TotalPrice      *float64 `yaml:"totalPrice"`
	TotalFees       *float64 `yaml:"totalFees"`
	ConvertedPrice  float64  `yaml:"convertedPrice"`
	Insurance       *struct {
		ID   int64   `yaml:"id"`
		Name string  `yaml:"name"`
		Fee  float64 `yaml:"fee"`
	} `yaml:"insurance"`
	ImagePath string `yaml:"imagePath"`
	IsSell    bool   `yaml:"isSell"`
}

type credentialDoc struct {
	ProductID  int64  `yaml:"productId"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	InternalID string `yaml:"internalId"`
	Status     string `yaml:"status"`
}

type keyDoc struct {
	ProductID  int64  `yaml:"productId"`
	Key        string `yaml:"key"`
	InternalID string `yaml:"internalId"`
	Status     string `yaml:"status"`
}

// loadOrderDoc reads and parses an order fixture file.
func loadOrderDoc(path string) (*orderDoc, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadOrder, err)
	}
	var doc orderDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseOrder, err)
	}
	if doc.ID == 0 {
		return nil, fmt.Errorf("%w: missing order id", ErrParseOrder)
	}
	return &doc, nil
}

// toOrder converts a fixture document into the order aggregate.
func (d *orderDoc) toOrder() *receiptpdf.Order {
	order := &receiptpdf.Order{
		ID:            d.ID,
		UserID:        d.UserID,
		CreatedAt:     d.CreatedAt.UTC(),
		OrderTypeName: d.OrderType,
		Status:        d.Status,
		BrandCode:     d.Brand,
		PaymentMethod: receiptpdf.PaymentMethod{
			Reference:   d.PaymentMethod.Reference,
			DisplayName: d.PaymentMethod.DisplayName,
			Address:     d.PaymentMethod.Address,
			Status:      d.PaymentMethod.Status,
		},
		User: receiptpdf.Customer{
			FirstName: d.User.FirstName,
			LastName:  d.User.LastName,
			Email:     d.User.Email,
			Address:   d.User.Address,
			City:      d.User.City,
			State:     d.User.State,
			Country:   d.User.Country,
			Zip:       d.User.Zip,
		},
		CurrencyUsed:    d.CurrencyUsed,
		CurrencyRate:    decimal.NewFromFloat(d.CurrencyRate),
		OriginalRate:    decimal.NewFromFloat(d.OriginalRate),
		TotalPrice:      decimal.NewFromFloat(d.TotalPrice),
		ConvertedTotal:  decimal.NewFromFloat(d.ConvertedTotal),
		BalanceAmount:   decimal.NewFromFloat(d.BalanceAmount),
		TransactionType: d.TransactionType,
		Transactions: receiptpdf.TransactionRefs{
			PaysafeAuthorizationID:        d.Transactions.PaysafeAuthorizationID,
			PaysafeMerchantRefNum:         d.Transactions.PaysafeMerchantRefNum,
			BlueSnapTransactionID:         d.Transactions.BlueSnapTransactionID,
			BlueSnapCheckoutTransactionID: d.Transactions.BlueSnapCheckoutTransactionID,
			CheckoutTransactionID:         d.Transactions.CheckoutTransactionID,
			SolidgateTransactionID:        d.Transactions.SolidgateTransactionID,
			NMITransactionID:              d.Transactions.NMITransactionID,
		},
	}

	// Regular orders carry differing asset kinds so the line item table, not
	// the exchange panel, renders.
	order.BaseCurrencyType = receiptpdf.AssetKindFiat
	order.TargetCurrencyType = receiptpdf.AssetKindCrypto
	if d.Exchange != nil {
		order.BaseSymbol = d.Exchange.BaseSymbol
		order.BaseCurrencyType = d.Exchange.BaseCurrencyType
		order.BaseIsStable = d.Exchange.BaseIsStable
		order.TargetSymbol = d.Exchange.TargetSymbol
		order.TargetCurrencyType = d.Exchange.TargetCurrencyType
		order.TargetIsStable = d.Exchange.TargetIsStable
		order.AmountBaseCrypto = decimal.NewFromFloat(d.Exchange.AmountBase)
		order.AmountTargetCrypto = decimal.NewFromFloat(d.Exchange.AmountTarget)
		order.ExchangeRate = decimal.NewFromFloat(d.Exchange.Rate)
	}

	for _, it := range d.Items {
		item := &receiptpdf.OrderLineItem{
			ProductID:       it.ProductID,
			Name:            it.Name,
			ProductName:     it.ProductName,
			CategoryName:    it.CategoryName,
			GameShortName:   it.GameShortName,
			Character:       it.Character,
			Status:          it.Status,
			Quantity:        it.Quantity,
			FulfilledAmount: it.FulfilledAmount,
			Price:           decimal.NewFromFloat(it.Price),
			ConvertedPrice:  decimal.NewFromFloat(it.ConvertedPrice),
			ImagePath:       it.ImagePath,
			IsSell:          it.IsSell,
		}
		if it.TotalPrice != nil {
			total := decimal.NewFromFloat(*it.TotalPrice)
			item.TotalPrice = &total
		}
		if it.TotalFees != nil {
			fees := decimal.NewFromFloat(*it.TotalFees)
			item.TotalFees = &fees
		}
		if it.Insurance != nil {
			id := it.Insurance.ID
			fee := decimal.NewFromFloat(it.Insurance.Fee)
			item.InsuranceID = &id
			item.Insurance = &receiptpdf.Insurance{ID: id, DisplayName: it.Insurance.Name}
			item.InsuranceFee = &fee
		}
		order.LineItems = append(order.LineItems, item)
	}

	for _, c := range d.Credentials {
		order.Credentials = append(order.Credentials, receiptpdf.AccountCredential(c))
	}
	for _, k := range d.Keys {
		order.Keys = append(order.Keys, receiptpdf.GiftCardKey(k))
	}

	return order
}

// fixtureStore serves preloaded orders by ID. Shared by every pooled service
// during batch generation.
type fixtureStore struct {
	orders map[int64]*receiptpdf.Order
}

func newFixtureStore(orders []*receiptpdf.Order) (fixtureStore, error) {
	s := fixtureStore{orders: make(map[int64]*receiptpdf.Order, len(orders))}
	for _, order := range orders {
		if _, ok := s.orders[order.ID]; ok {
			return fixtureStore{}, fmt.Errorf("%w: duplicate order id %d", ErrInvalidArgs, order.ID)
		}
		s.orders[order.ID] = order
	}
	return s, nil
}

func (s fixtureStore) Order(_ context.Context, orderID int64) (*receiptpdf.Order, error) {
	return s.orders[orderID], nil
}
