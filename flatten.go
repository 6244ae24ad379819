package hisaab

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"hisaab/date"
)

// RemainderItem names the synthetic line item carrying the difference when
// flattened items do not sum to the claimed total. A mismatch is surfaced,
// never silently dropped.
const RemainderItem = "other charges"

// rawShape describes one per-merchant raw order payload. Quick-commerce and
// food-delivery parsers disagree on field names (swiggy/zomato emit
// items[].amount, zepto items[].total, blinkit nests invoices[].items[]), so
// each shape pairs a jsonpath to the item list with the keys to try.
type rawShape struct {
	itemsPath  string
	nameKeys   []string
	amountKeys []string
}

var rawShapes = []rawShape{
	{itemsPath: "$.items[*]", nameKeys: []string{"name", "description"}, amountKeys: []string{"amount", "total", "net"}},
	{itemsPath: "$.invoices[*].items[*]", nameKeys: []string{"name", "description"}, amountKeys: []string{"total", "amount"}},
	{itemsPath: "$.order.items[*]", nameKeys: []string{"name"}, amountKeys: []string{"amount", "total"}},
}

// Flatten produces the uniform {name, amount} line-item list of an order.
// Typed items win over invoices, which win over the raw per-merchant payload.
// When the items do not sum to the claimed total, a synthetic remainder item
// carries the difference: positive for unitemized charges, negative when the
// items overshoot the total (order-level discounts).
func Flatten(o Order) ([]LineItem, error) {
	var items []LineItem
	switch {
	case len(o.Items) > 0:
		items = append(items, o.Items...)
	case len(o.Invoices) > 0:
		for _, inv := range o.Invoices {
			items = append(items, inv.Items...)
		}
	case len(o.Raw) > 0:
		var err error
		items, err = flattenRaw(o.Raw)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", o.Identity, err)
		}
	}

	if len(items) == 0 || !o.Total.IsPositive() {
		return items, nil
	}
	sum := A(0)
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	if diff := o.Total.Sub(sum); !diff.IsZero() {
		items = append(items, LineItem{Name: RemainderItem, Amount: diff})
	}
	return items, nil
}

// flattenRaw extracts items from a raw merchant payload by trying each known
// shape in order.
func flattenRaw(raw json.RawMessage) ([]LineItem, error) {
	var jobj any
	if err := json.Unmarshal(raw, &jobj); err != nil {
		return nil, fmt.Errorf("could not decode raw order payload: %w", err)
	}

	for _, shape := range rawShapes {
		jval, err := jsonpath.Get(shape.itemsPath, jobj)
		if err != nil {
			continue
		}
		jlist, ok := jval.([]any)
		if !ok || len(jlist) == 0 {
			continue
		}
		items := make([]LineItem, 0, len(jlist))
		for _, ji := range jlist {
			jitem, ok := ji.(map[string]any)
			if !ok {
				continue
			}
			name := firstString(jitem, shape.nameKeys)
			amount, ok := firstAmount(jitem, shape.amountKeys)
			if name == "" || !ok || !amount.IsPositive() {
				continue
			}
			items = append(items, LineItem{Name: name, Amount: amount})
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return nil, nil
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstAmount(m map[string]any, keys []string) (Amount, bool) {
	for _, k := range keys {
		if f, ok := m[k].(float64); ok {
			return A(f), true
		}
	}
	return Amount{}, false
}

// AssignConfig carries the tolerances of order-to-ledger assignment.
type AssignConfig struct {
	Tolerance Amount
	MaxSubset int
}

// DefaultAssignConfig matches the tolerance of the order stage of
// reconciliation.
func DefaultAssignConfig() AssignConfig {
	return AssignConfig{Tolerance: A(5), MaxSubset: DefaultMaxSubset}
}

// Assignment expands one ledger record into the item rows of the orders that
// settle it.
type Assignment struct {
	Items []LineItem
	Used  []Order
	// Remainder is the signed difference between the ledger amount and the
	// assigned items when they disagree beyond tolerance; it is also appended
	// to Items as a synthetic row, tagged by name as a mismatch.
	Remainder Amount
	Mismatch  bool
}

// Assign finds the orders settling a ledger record: first an exact
// single-order amount match on the record's date (and one day either side),
// then a subset-sum search over same-day orders. The assigned items' total is
// reconciled against the ledger amount; a disagreement beyond tolerance
// becomes a signed remainder item.
func Assign(rec Record, orders []Order, cfg AssignConfig) (*Assignment, error) {
	if !cfg.Tolerance.IsPositive() {
		return nil, fmt.Errorf("tolerance must be positive, got %s", cfg.Tolerance)
	}

	used := pickOrders(rec, orders, cfg)
	if len(used) == 0 {
		return &Assignment{}, nil
	}

	a := &Assignment{Used: used}
	for _, o := range used {
		items, err := Flatten(o)
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, items...)
	}

	sum := A(0)
	for _, it := range a.Items {
		sum = sum.Add(it.Amount)
	}
	if diff := rec.Amount.Sub(sum); !AmountsClose(sum, rec.Amount, cfg.Tolerance) {
		a.Remainder = diff
		a.Mismatch = true
		a.Items = append(a.Items, LineItem{Name: RemainderItem, Amount: diff})
	}
	return a, nil
}

// pickOrders selects the orders settling the record amount.
func pickOrders(rec Record, orders []Order, cfg AssignConfig) []Order {
	byID := make(map[string]Order, len(orders))
	window := date.Window{Before: 1, After: 1}

	// Exact single-order match on the date, then ±1 day. Smaller identity
	// wins among equals on the same day.
	var exact *Order
	for i := range orders {
		o := orders[i]
		byID[o.Identity] = o
		if !AmountsClose(o.Total, rec.Amount, cfg.Tolerance) {
			continue
		}
		if !window.Contains(rec.Date, o.On()) {
			continue
		}
		if exact == nil || closerOrder(o, *exact, rec.Date) {
			exact = &o
		}
	}
	if exact != nil {
		return []Order{*exact}
	}

	// Several orders settling as one ledger line: subset-sum over same-day
	// orders.
	var cands []Candidate
	for _, o := range orders {
		if o.On() == rec.Date {
			cands = append(cands, Candidate{Identity: o.Identity, Amount: o.Total, On: o.On()})
		}
	}
	best := SubsetSum(cands, rec.Amount, cfg.Tolerance, cfg.MaxSubset, rec.Date)
	usedOrders := make([]Order, 0, len(best))
	for _, c := range best {
		usedOrders = append(usedOrders, byID[c.Identity])
	}
	return usedOrders
}

func closerOrder(a, b Order, anchor date.Date) bool {
	ad, bd := dayDist(a.On(), anchor), dayDist(b.On(), anchor)
	if ad != bd {
		return ad < bd
	}
	return a.Identity < b.Identity
}
