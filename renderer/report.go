// Package renderer formats parse and reconciliation results as markdown.
// It never computes anything: it renders the structs the core produces.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"hisaab"
)

// ReportMarkdown renders a reconciliation report. Each enumerated list is
// capped to previewCap entries (0 means no cap); the cap is presentation
// only, the report itself is never truncated.
func ReportMarkdown(r *hisaab.Report, previewCap int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Reconciliation for %s", r.Date))
	doc.PlainText(fmt.Sprintf(
		"%d ledger matches, %d order matches, %d unmatched payments, %d unmatched ledger entries, %d manual-only, %d unmatched orders.",
		len(r.Pairs), len(r.OrderMatches), len(r.UnmatchedPayments),
		len(r.UnmatchedEntries), len(r.ManualOnly), len(r.UnmatchedOrders)))

	if len(r.Pairs) > 0 {
		doc.H2("Ledger ↔ payment")
		rows := make([][]string, 0, len(r.Pairs))
		for _, m := range capPairs(r.Pairs, previewCap) {
			rows = append(rows, []string{
				m.Entry.Desc,
				m.Entry.Amount.Display(),
				m.Payment.Identity,
				m.Payment.Instrument,
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Entry", "Amount", "Payment", "Instrument"},
			Rows:   rows,
		})
		more(doc, len(r.Pairs), previewCap)
	}

	if len(r.OrderMatches) > 0 {
		doc.H2("Payment ↔ order")
		rows := make([][]string, 0, len(r.OrderMatches))
		for _, m := range capOrderMatches(r.OrderMatches, previewCap) {
			rows = append(rows, []string{
				m.Order.Identity,
				m.Order.Total.Display(),
				m.Payment.Identity,
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Order", "Total", "Payment"},
			Rows:   rows,
		})
		more(doc, len(r.OrderMatches), previewCap)
	}

	section(doc, "Unmatched payments", len(r.UnmatchedPayments), previewCap, func(i int) string {
		p := r.UnmatchedPayments[i]
		return fmt.Sprintf("%s — %s (%s)", p.Identity, p.Amount.Display(), p.Instrument)
	})
	section(doc, "Unmatched ledger entries", len(r.UnmatchedEntries), previewCap, func(i int) string {
		e := r.UnmatchedEntries[i]
		return fmt.Sprintf("%s — %s", e.Desc, e.Amount.Display())
	})
	section(doc, "Manual only", len(r.ManualOnly), previewCap, func(i int) string {
		e := r.ManualOnly[i]
		return fmt.Sprintf("%s — %s (%s)", e.Desc, e.Amount.Display(), e.SourceHint)
	})
	section(doc, "Unmatched orders (possibly COD or pending)", len(r.UnmatchedOrders), previewCap, func(i int) string {
		o := r.UnmatchedOrders[i]
		return fmt.Sprintf("%s — %s", o.Identity, o.Total.Display())
	})

	return doc.String()
}

// section renders a capped bullet list, or nothing when the list is empty.
func section(doc *md.Markdown, title string, n, limit int, line func(i int) string) {
	if n == 0 {
		return
	}
	doc.H2(title)
	shown := n
	if limit > 0 && shown > limit {
		shown = limit
	}
	items := make([]string, 0, shown)
	for i := 0; i < shown; i++ {
		items = append(items, line(i))
	}
	doc.BulletList(items...)
	more(doc, n, limit)
}

func more(doc *md.Markdown, n, limit int) {
	if limit > 0 && n > limit {
		doc.PlainText(fmt.Sprintf("… and %d more.", n-limit))
	}
}

func capPairs(pairs []hisaab.MatchedPair, limit int) []hisaab.MatchedPair {
	if limit > 0 && len(pairs) > limit {
		return pairs[:limit]
	}
	return pairs
}

func capOrderMatches(ms []hisaab.OrderMatch, limit int) []hisaab.OrderMatch {
	if limit > 0 && len(ms) > limit {
		return ms[:limit]
	}
	return ms
}
