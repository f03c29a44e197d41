// Package model holds the invoice schema and its total-computation rule.
package model

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-tex/internal/codec"
	money "github.com/rezonia/invoice-tex/internal/decimal"
)

// Invoice is the root aggregate decoded from the input document
type Invoice struct {
	Info     InvoiceInfo `toml:"invoice" json:"invoice"`
	Buyer    Subject     `toml:"buyer" json:"buyer"`
	Seller   Subject     `toml:"seller" json:"seller"`
	Payment  Payment     `toml:"payment" json:"payment"`
	Products []Product   `toml:"products" json:"products"`
}

// InvoiceInfo identifies the document
type InvoiceInfo struct {
	ID      string     `toml:"id" json:"id"`
	Created codec.Date `toml:"created" json:"created"`
	// Done is the place of issue
	Done string `toml:"done" json:"done"`
}

// Subject is either party of the invoice
type Subject struct {
	Name   string `toml:"name" json:"name"`
	Street string `toml:"street" json:"street"`
	Region string `toml:"region" json:"region"`
	TaxID  string `toml:"nip" json:"nip"`
}

// Payment holds the due date and the destination account
type Payment struct {
	Date    codec.Date `toml:"date" json:"date"`
	Account string     `toml:"account" json:"account"`
	Bank    string     `toml:"bank" json:"bank"`
}

// Product is a single line item
type Product struct {
	Name     string        `toml:"name" json:"name"`
	Unit     string        `toml:"unit" json:"unit"`
	Quantity codec.Decimal `toml:"quantity" json:"quantity"`
	Price    codec.Decimal `toml:"price" json:"price"`
	// PKD is the activity classification code printed next to the item
	PKD string `toml:"pkd" json:"pkd"`
}

// LineTotal returns price × quantity
func (p Product) LineTotal() decimal.Decimal {
	return money.Mul(p.Price.Decimal, p.Quantity.Decimal)
}

// Total sums price × quantity over all products. It is recomputed on every
// call.
func (inv *Invoice) Total() decimal.Decimal {
	lines := make([]decimal.Decimal, 0, len(inv.Products))
	for _, p := range inv.Products {
		lines = append(lines, p.LineTotal())
	}
	return money.Sum(lines)
}
