package renderer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hisaab"
	"hisaab/date"
)

func TestReportMarkdown(t *testing.T) {
	on := date.New(2025, time.January, 10)
	r := &hisaab.Report{
		Date: on,
		Pairs: []hisaab.MatchedPair{{
			Entry:   hisaab.Entry{Desc: "swiggy biryani", Amount: hisaab.A(500)},
			Payment: hisaab.Payment{Identity: "p1", Amount: hisaab.A(500), Instrument: "mk"},
		}},
		OrderMatches: []hisaab.OrderMatch{{
			Order:   hisaab.Order{Identity: "ord-1", Total: hisaab.A(487)},
			Payment: hisaab.Payment{Identity: "p2"},
		}},
		UnmatchedPayments: []hisaab.Payment{{Identity: "p3", Amount: hisaab.A(99), Instrument: "sbi"}},
		ManualOnly:        []hisaab.Entry{{Desc: "auto", Amount: hisaab.A(120), SourceHint: "cash"}},
		UnmatchedOrders:   []hisaab.Order{{Identity: "ord-9", Total: hisaab.A(350)}},
	}

	out := ReportMarkdown(r, 10)

	for _, want := range []string{
		"# Reconciliation for 2025-01-10",
		"1 ledger matches, 1 order matches, 1 unmatched payments, 0 unmatched ledger entries, 1 manual-only, 1 unmatched orders.",
		"swiggy biryani",
		"p1",
		"ord-1",
		"## Unmatched payments",
		"## Manual only",
		"possibly COD or pending",
		"ord-9",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportMarkdownPreviewCap(t *testing.T) {
	r := &hisaab.Report{Date: date.New(2025, time.January, 10)}
	for i := 0; i < 15; i++ {
		r.UnmatchedPayments = append(r.UnmatchedPayments, hisaab.Payment{
			Identity: fmt.Sprintf("p%02d", i), Amount: hisaab.A(10 + i),
		})
	}

	out := ReportMarkdown(r, 10)
	if !strings.Contains(out, "… and 5 more.") {
		t.Errorf("capped list should announce the overflow:\n%s", out)
	}
	if strings.Contains(out, "p12") {
		t.Errorf("entries past the cap should not render:\n%s", out)
	}
	// The headline count still reflects the full report.
	if !strings.Contains(out, "15 unmatched payments") {
		t.Errorf("headline should count the full list:\n%s", out)
	}
}

func TestRecordsMarkdown(t *testing.T) {
	res := &hisaab.ParseResult{
		Date: date.New(2025, time.January, 10),
		Records: []hisaab.Record{
			{ID: "r1", Kind: hisaab.Expense, Amount: hisaab.A(500), Source: "mk", Merchant: "swiggy", Notes: "dinner"},
			{ID: "r2", Kind: hisaab.Adjustment, Amount: hisaab.A(50), Source: "mk", AdjustKind: hisaab.AdjustCashback, LinkedID: "r1"},
		},
		Errors: []hisaab.ParseError{{Line: "chai with friends", Reason: "missing amount prefix"}},
	}

	out := RecordsMarkdown(res)
	for _, want := range []string{
		"## Parsed 2 record(s) for 2025-01-10",
		"| expense |",
		"swiggy",
		"[cashback]",
		"## 1 line error(s)",
		"missing amount prefix: `chai with friends`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendering missing %q:\n%s", want, out)
		}
	}
}

func TestRecordsMarkdownEscapesPipes(t *testing.T) {
	res := &hisaab.ParseResult{
		Records: []hisaab.Record{
			{ID: "r1", Kind: hisaab.Expense, Amount: hisaab.A(10), Source: "cash", Notes: "a|b"},
		},
	}
	if out := RecordsMarkdown(res); !strings.Contains(out, `a\|b`) {
		t.Errorf("pipe in notes should be escaped:\n%s", out)
	}
}
