package hisaab

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeRecords(t *testing.T) {
	res := mustParse(t, "2/1/2025 [blr]\n500/- swiggy dinner got 50 cashback (mk)")
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, res.Records); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("encoded %d lines, want one per record", got)
	}

	back, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 {
		t.Fatalf("decoded %d records, want 2", len(back))
	}
	for i, r := range back {
		orig := res.Records[i]
		if r.ID != orig.ID || r.Kind != orig.Kind || !r.Amount.Equal(orig.Amount) {
			t.Errorf("record %d round-tripped as %+v, want %+v", i, r, orig)
		}
		if r.Date != orig.Date {
			t.Errorf("record %d date = %s, want %s", i, r.Date, orig.Date)
		}
	}
	if back[1].LinkedID != back[0].ID {
		t.Errorf("adjustment link lost in round trip: %q vs %q", back[1].LinkedID, back[0].ID)
	}
}

func TestDecodePayments(t *testing.T) {
	in := `{"identity":"p1","amount":500,"occurred_at":"2025-01-10T13:00:00Z","instrument":"mk"}

{"identity":"p2","amount":120.50,"occurred_at":"2025-01-10T15:30:00Z"}
`
	pays, err := DecodePayments(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(pays) != 2 {
		t.Fatalf("decoded %d payments, want 2 with the blank line skipped", len(pays))
	}
	if pays[0].Instrument != "mk" || !pays[0].Amount.Equal(A(500)) {
		t.Errorf("first payment = %+v", pays[0])
	}
	if !pays[1].Amount.Equal(A(120.5)) {
		t.Errorf("second amount = %s, want 120.50", pays[1].Amount)
	}
}

func TestDecodePaymentsBadLine(t *testing.T) {
	in := `{"identity":"p1","amount":500,"occurred_at":"2025-01-10T13:00:00Z"}
{nope}
`
	if _, err := DecodePayments(strings.NewReader(in)); err == nil {
		t.Fatal("malformed line should fail")
	} else if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should name the line", err)
	}
}

func TestDecodeOrdersKeepsRaw(t *testing.T) {
	in := `{"identity":"o1","total":380,"merchant":"swiggy","items":[{"name":"biryani","amount":320},{"name":"coke","amount":60}]}
`
	orders, err := DecodeOrders(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("decoded %d orders, want 1", len(orders))
	}
	o := orders[0]
	if len(o.Items) != 2 {
		t.Errorf("items = %+v, want the typed list", o.Items)
	}
	// The source line doubles as the raw payload for shape-specific parsing.
	if !strings.Contains(string(o.Raw), `"biryani"`) {
		t.Errorf("raw payload = %s, want the source line kept", o.Raw)
	}
}
