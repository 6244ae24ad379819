package hisaab

import (
	"encoding/json"
	"time"

	"hisaab/date"
)

// Payment is an externally-produced payment-notification record (bank debit,
// UPI alert). The engine treats payments as read-only facts; claiming happens
// in an in-memory used-set per reconciliation run, never on the record.
type Payment struct {
	Identity   string    `json:"identity"` // stable dedup key
	Amount     Amount    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
	Instrument string    `json:"instrument,omitempty"`
	Subject    string    `json:"subject,omitempty"`
}

// On returns the calendar day of the payment.
func (p Payment) On() date.Date { return date.Of(p.OccurredAt) }

// LineItem is one flattened invoice line: a name and an amount, uniform
// across all merchant shapes.
type LineItem struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

// Invoice is one invoice of a multi-invoice order.
type Invoice struct {
	Number string     `json:"number,omitempty"`
	Date   date.Date  `json:"date,omitempty"`
	Items  []LineItem `json:"items,omitempty"`
}

// Order is an externally-produced purchase/order record. Different merchants
// emit different shapes: some carry a flat item list, some carry invoices,
// and some only a raw per-merchant JSON payload (see Flatten).
type Order struct {
	Identity   string          `json:"identity"`
	Merchant   string          `json:"merchant,omitempty"`
	Total      Amount          `json:"total"`
	OccurredAt time.Time       `json:"occurred_at,omitempty"`
	InvoiceOn  date.Date       `json:"invoice_date,omitempty"`
	Items      []LineItem      `json:"items,omitempty"`
	Invoices   []Invoice       `json:"invoices,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// On returns the order's calendar day: the order timestamp when recorded,
// otherwise the invoice date.
func (o Order) On() date.Date {
	if !o.OccurredAt.IsZero() {
		return date.Of(o.OccurredAt)
	}
	return o.InvoiceOn
}

// When returns the best known timestamp of the order, for gap filtering
// against payment times. Invoice-dated orders resolve to midnight.
func (o Order) When() time.Time {
	if !o.OccurredAt.IsZero() {
		return o.OccurredAt
	}
	return o.InvoiceOn.Time()
}
