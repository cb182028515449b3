package model

import "github.com/shopspring/decimal"

// Product describes a tradeable instrument as reported by the pricing service.
type Product struct {
	ISIN      string
	Name      string
	Category  ProductType
	Tradeable bool
}

// Quote is the priced value of an instrument for a requested quantity.
type Quote struct {
	Price      decimal.Decimal
	UserAmount decimal.Decimal
}

// StatusReport is the venue's view of one upstream order.
type StatusReport struct {
	OrderID       string
	Status        string
	Message       string
	AdminAccepted bool
}
