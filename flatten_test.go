package hisaab

import (
	"encoding/json"
	"testing"
	"time"

	"hisaab/date"
)

func TestFlattenTypedItems(t *testing.T) {
	o := Order{
		Identity: "ord-1",
		Total:    A(500),
		Items: []LineItem{
			{Name: "paneer roll", Amount: A(220)},
			{Name: "lassi", Amount: A(180)},
		},
	}
	items, err := Flatten(o)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 2 plus the remainder", len(items))
	}
	last := items[2]
	if last.Name != RemainderItem {
		t.Errorf("last item = %q, want %q", last.Name, RemainderItem)
	}
	if !last.Amount.Equal(A(100)) {
		t.Errorf("remainder = %s, want 100.00", last.Amount)
	}
}

func TestFlattenExactItemsNoRemainder(t *testing.T) {
	o := Order{
		Identity: "ord-1",
		Total:    A(400),
		Items: []LineItem{
			{Name: "paneer roll", Amount: A(220)},
			{Name: "lassi", Amount: A(180)},
		},
	}
	items, err := Flatten(o)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want no synthetic remainder", len(items))
	}
}

func TestFlattenOverTotalRemainder(t *testing.T) {
	// Items overshoot the claimed total (an order-level discount): the gap is
	// surfaced as a negative remainder row, never dropped.
	o := Order{
		Identity: "ord-1",
		Total:    A(400),
		Items: []LineItem{
			{Name: "paneer roll", Amount: A(300)},
			{Name: "lassi", Amount: A(200)},
		},
	}
	items, err := Flatten(o)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 2 plus the signed remainder", len(items))
	}
	last := items[2]
	if last.Name != RemainderItem {
		t.Errorf("last item = %q, want %q", last.Name, RemainderItem)
	}
	if !last.Amount.Equal(A(-100)) {
		t.Errorf("remainder = %s, want -100.00", last.Amount)
	}
}

func TestFlattenInvoices(t *testing.T) {
	o := Order{
		Identity: "ord-1",
		Total:    A(300),
		Invoices: []Invoice{
			{Number: "INV-1", Items: []LineItem{{Name: "atta", Amount: A(200)}}},
			{Number: "INV-2", Items: []LineItem{{Name: "milk", Amount: A(100)}}},
		},
	}
	items, err := Flatten(o)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "atta" || items[1].Name != "milk" {
		t.Errorf("items = %+v, want both invoices concatenated", items)
	}
}

func TestFlattenRawShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []LineItem
	}{
		{
			name: "food delivery items with amount",
			raw:  `{"items":[{"name":"biryani","amount":320},{"name":"coke","amount":60}],"total":380}`,
			want: []LineItem{{Name: "biryani", Amount: A(320)}, {Name: "coke", Amount: A(60)}},
		},
		{
			name: "quick commerce items with total",
			raw:  `{"items":[{"name":"curd","total":55}]}`,
			want: []LineItem{{Name: "curd", Amount: A(55)}},
		},
		{
			name: "nested invoices",
			raw:  `{"invoices":[{"invoice_number":"X1","items":[{"name":"eggs","total":90},{"name":"bread","total":45}]}]}`,
			want: []LineItem{{Name: "eggs", Amount: A(90)}, {Name: "bread", Amount: A(45)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Flatten(Order{Identity: "o", Raw: json.RawMessage(tt.raw)})
			if err != nil {
				t.Fatal(err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d: %+v", len(items), len(tt.want), items)
			}
			for i := range items {
				if items[i].Name != tt.want[i].Name || !items[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("item %d = %+v, want %+v", i, items[i], tt.want[i])
				}
			}
		})
	}
}

func TestFlattenBadRawPayload(t *testing.T) {
	if _, err := Flatten(Order{Identity: "o", Raw: json.RawMessage("{broken")}); err == nil {
		t.Error("malformed raw payload should fail")
	}
}

func TestAssignExactOrder(t *testing.T) {
	on := date.New(2025, time.January, 10)
	rec := Record{ID: "r1", Date: on, Kind: Expense, Amount: A(487)}
	orders := []Order{
		{Identity: "ord-1", Total: A(487), OccurredAt: on.Time(),
			Items: []LineItem{{Name: "biryani", Amount: A(487)}}},
		{Identity: "ord-2", Total: A(950), OccurredAt: on.Time()},
	}

	a, err := Assign(rec, orders, DefaultAssignConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Used) != 1 || a.Used[0].Identity != "ord-1" {
		t.Fatalf("used = %+v, want the exact-amount order", a.Used)
	}
	if len(a.Items) != 1 || a.Items[0].Name != "biryani" {
		t.Errorf("items = %+v, want the order's item list", a.Items)
	}
	if a.Mismatch {
		t.Error("exact match should not flag a mismatch")
	}
}

func TestAssignSubsetOfOrders(t *testing.T) {
	on := date.New(2025, time.January, 10)
	rec := Record{ID: "r1", Date: on, Kind: Expense, Amount: A(700)}
	orders := []Order{
		{Identity: "ord-a", Total: A(300), OccurredAt: on.Time(),
			Items: []LineItem{{Name: "fruits", Amount: A(300)}}},
		{Identity: "ord-b", Total: A(400), OccurredAt: on.Time(),
			Items: []LineItem{{Name: "veggies", Amount: A(400)}}},
		{Identity: "ord-c", Total: A(999), OccurredAt: on.Time()},
	}

	a, err := Assign(rec, orders, DefaultAssignConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Used) != 2 {
		t.Fatalf("used = %+v, want the two orders summing to 700", a.Used)
	}
	if len(a.Items) != 2 {
		t.Errorf("items = %+v, want both orders' items", a.Items)
	}
}

func TestAssignRemainderOnMismatch(t *testing.T) {
	on := date.New(2025, time.January, 10)
	// The order total matches the ledger amount, but the order carries no item
	// breakdown at all: the whole amount becomes a synthetic row and the
	// assignment is flagged.
	rec := Record{ID: "r1", Date: on, Kind: Expense, Amount: A(500)}
	orders := []Order{
		{Identity: "ord-1", Total: A(500), OccurredAt: on.Time()},
	}

	a, err := Assign(rec, orders, DefaultAssignConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Used) != 1 {
		t.Fatalf("used = %+v, want the itemless order picked", a.Used)
	}
	if !a.Mismatch {
		t.Fatal("an itemless assignment should flag a mismatch")
	}
	if !a.Remainder.Equal(A(500)) {
		t.Errorf("remainder = %s, want 500.00", a.Remainder)
	}
	last := a.Items[len(a.Items)-1]
	if last.Name != RemainderItem || !last.Amount.Equal(A(500)) {
		t.Errorf("last item = %+v, want the synthetic remainder row", last)
	}
}

func TestAssignNoOrder(t *testing.T) {
	on := date.New(2025, time.January, 10)
	rec := Record{ID: "r1", Date: on, Kind: Expense, Amount: A(500)}

	a, err := Assign(rec, nil, DefaultAssignConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Used) != 0 || len(a.Items) != 0 {
		t.Errorf("assignment = %+v, want empty", a)
	}
}

func TestAssignRejectsBadTolerance(t *testing.T) {
	rec := Record{ID: "r1", Date: date.New(2025, time.January, 10), Amount: A(500)}
	if _, err := Assign(rec, nil, AssignConfig{}); err == nil {
		t.Error("zero tolerance should be rejected")
	}
}
