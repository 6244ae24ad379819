package hisaab

import (
	"encoding/json"
	"errors"
	"fmt"

	"hisaab/date"
)

// Kind is a typed string identifying the nature of a record.
type Kind string

const (
	Expense    Kind = "expense"
	Income     Kind = "income"
	Transfer   Kind = "transfer"
	Splitwise  Kind = "splitwise"
	Adjustment Kind = "adjustment"
)

// Adjustment kinds.
const (
	AdjustCashback = "cashback"
	AdjustRefund   = "refund"
)

// ParseStatus tells whether a record came out of the parser clean.
type ParseStatus string

const (
	StatusOK    ParseStatus = "ok"
	StatusError ParseStatus = "error"
)

// Tags applied by the parser.
const (
	TagSplitwise = "splitwise"
	TagCashflow  = "cashflow"
)

// Record is one financial movement produced by the ledger parser. A record is
// created exactly once from one input line (or derived sub-row thereof) and
// never revisited by the parser; category, subcategory and tags may be filled
// later by external enrichment.
type Record struct {
	ID      string `json:"id"`
	GroupID string `json:"group,omitempty"` // links sibling rows produced by one input line

	Date   date.Date `json:"date"`
	Kind   Kind      `json:"kind"`
	Amount Amount    `json:"amount"`

	Source   string `json:"source,omitempty"`
	Location string `json:"location,omitempty"`
	Merchant string `json:"merchant,omitempty"`

	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Counterparty string `json:"counterparty,omitempty"`
	LinkedID     string `json:"linked,omitempty"` // set on adjustments, points at the originating record
	AdjustKind   string `json:"adjust,omitempty"` // cashback or refund

	Raw   string `json:"raw,omitempty"`
	Notes string `json:"notes,omitempty"`

	Status     ParseStatus `json:"status"`
	ParseError string      `json:"parseError,omitempty"`
}

// Validate checks the record invariants. It reports programmer errors in the
// parser, not bad user input.
func (r Record) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("record has no id"))
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, fmt.Errorf("record %s has non-positive amount %s", r.ID, r.Amount))
	}
	if r.Date.IsZero() {
		errs = append(errs, fmt.Errorf("record %s has no date", r.ID))
	}
	switch r.Kind {
	case Expense, Income, Transfer, Splitwise, Adjustment:
	default:
		errs = append(errs, fmt.Errorf("record %s has unknown kind %q", r.ID, r.Kind))
	}
	if r.Kind == Adjustment && r.LinkedID == "" {
		errs = append(errs, fmt.Errorf("adjustment %s has no linked record", r.ID))
	}
	if r.Kind == Transfer && r.Merchant != "" {
		errs = append(errs, fmt.Errorf("transfer %s carries merchant %q", r.ID, r.Merchant))
	}
	return errors.Join(errs...)
}

// HasTag reports whether the record carries the given tag.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MarshalJSON keeps a stable field order for jsonl persistence.
func (r Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Optional("group", r.GroupID)
	w.Append("date", r.Date)
	w.Append("kind", r.Kind)
	w.Append("amount", r.Amount)
	w.Optional("source", r.Source)
	w.Optional("location", r.Location)
	w.Optional("merchant", r.Merchant)
	w.Optional("category", r.Category)
	w.Optional("subcategory", r.Subcategory)
	w.Optional("tags", r.Tags)
	w.Optional("counterparty", r.Counterparty)
	w.Optional("linked", r.LinkedID)
	w.Optional("adjust", r.AdjustKind)
	w.Optional("raw", r.Raw)
	w.Optional("notes", r.Notes)
	w.Append("status", r.Status)
	w.Optional("parseError", r.ParseError)
	return w.MarshalJSON()
}

// recordAlias avoids recursing into MarshalJSON when decoding.
type recordAlias Record

func (r *Record) UnmarshalJSON(b []byte) error {
	var a recordAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*r = Record(a)
	return nil
}
