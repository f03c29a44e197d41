package model

import (
	money "github.com/rezonia/invoice-tex/internal/decimal"
)

// Summary is a flat, display-oriented view of an invoice
type Summary struct {
	ID        string        `json:"id"`
	Created   string        `json:"created"`
	Seller    string        `json:"seller"`
	Buyer     string        `json:"buyer"`
	DueDate   string        `json:"due_date"`
	Products  int           `json:"products"`
	Lines     []LineSummary `json:"lines,omitempty"`
	Total     string        `json:"total"`
	TotalText string        `json:"total_display"`
}

// LineSummary describes one product line with its computed total
type LineSummary struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// Summary builds the display view, computing line totals and the invoice
// total on the fly.
func (inv *Invoice) Summary() *Summary {
	total := inv.Total()
	s := &Summary{
		ID:        inv.Info.ID,
		Created:   inv.Info.Created.String(),
		Seller:    inv.Seller.Name,
		Buyer:     inv.Buyer.Name,
		DueDate:   inv.Payment.Date.String(),
		Products:  len(inv.Products),
		Lines:     make([]LineSummary, 0, len(inv.Products)),
		Total:     total.String(),
		TotalText: money.FormatPLN(total),
	}
	for _, p := range inv.Products {
		s.Lines = append(s.Lines, LineSummary{
			Name:     p.Name,
			Quantity: p.Quantity.String(),
			Price:    p.Price.String(),
			Total:    p.LineTotal().String(),
		})
	}
	return s
}
