package hisaab

import (
	"fmt"
	"time"

	"hisaab/date"
)

// ReconcileConfig carries the tolerances and windows of one reconciliation
// run. The zero value is not usable; start from DefaultReconcileConfig.
type ReconcileConfig struct {
	// LedgerTolerance is the amount tolerance for ledger-to-payment matches.
	LedgerTolerance Amount
	// OrderTolerance is the looser tolerance for payment-to-order matches.
	OrderTolerance Amount
	// LedgerWindow is the day window around the reconciliation date searched
	// for payments in stage A.
	LedgerWindow date.Window
	// OrderWindow is the wider day window around an order's own date searched
	// for payments in stage B.
	OrderWindow date.Window
	// MaxGap caps the wall-clock distance between a payment and the order it
	// settles.
	MaxGap time.Duration
	// NonVerifiable lists source codes with no notification trail (cash-like
	// instruments). Hints on them go to the manual-only bucket.
	NonVerifiable []string
	// MaxSubset bounds the subset-sum search grouping several orders into one
	// payment (DefaultMaxSubset when zero).
	MaxSubset int
	// PreviewCap bounds each enumerated list in the human-readable summary.
	// It never truncates the report itself.
	PreviewCap int
}

// DefaultReconcileConfig returns the tolerances used by the daily run: tight
// for ledger-to-payment, looser for payment-to-order.
func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		LedgerTolerance: A(1),
		OrderTolerance:  A(5),
		LedgerWindow:    date.Window{Before: 1, After: 1},
		OrderWindow:     date.Window{Before: 2, After: 2},
		MaxGap:          48 * time.Hour,
		NonVerifiable:   []string{"cash"},
		MaxSubset:       DefaultMaxSubset,
		PreviewCap:      10,
	}
}

// Validate reports programmer errors in the configuration.
func (c ReconcileConfig) Validate() error {
	if !c.LedgerTolerance.IsPositive() {
		return fmt.Errorf("ledger tolerance must be positive, got %s", c.LedgerTolerance)
	}
	if !c.OrderTolerance.IsPositive() {
		return fmt.Errorf("order tolerance must be positive, got %s", c.OrderTolerance)
	}
	if c.MaxGap <= 0 {
		return fmt.Errorf("max gap must be positive, got %s", c.MaxGap)
	}
	return nil
}

func (c ReconcileConfig) nonVerifiable(source string) bool {
	for _, s := range c.NonVerifiable {
		if s == source {
			return true
		}
	}
	return false
}

// MatchedPair is one ledger hint claimed against one payment.
type MatchedPair struct {
	Entry   Entry   `json:"entry"`
	Payment Payment `json:"payment"`
}

// OrderMatch is one order claimed against one payment.
type OrderMatch struct {
	Order   Order   `json:"order"`
	Payment Payment `json:"payment"`
}

// Report is the day-scoped outcome of one reconciliation run. It is fully
// recomputed each run from its three inputs; nothing survives between runs.
type Report struct {
	Date date.Date `json:"date"`

	Pairs        []MatchedPair `json:"matched"`
	OrderMatches []OrderMatch  `json:"orderMatched"`

	UnmatchedPayments []Payment `json:"unmatchedPayments"`
	UnmatchedEntries  []Entry   `json:"unmatchedEntries"`
	// ManualOnly holds hints on non-verifiable sources. They are excluded
	// from the unmatched count: there is nothing to match them against.
	ManualOnly []Entry `json:"manualOnly"`
	// UnmatchedOrders are orders no payment settles, possibly COD or pending.
	UnmatchedOrders []Order `json:"unmatchedOrders"`
}

// Reconcile matches one day's ledger hints against payment records (stage A)
// and orders against payments (stage B). Stage B tries one-to-one claims
// first, then groups leftover orders settling as a single payment by
// subset-sum. Inputs are read-only; a payment is claimed at most once per run
// across both stages.
func Reconcile(on date.Date, entries []Entry, pays []Payment, orders []Order, cfg ReconcileConfig) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Report{Date: on}
	used := make(map[string]bool, len(pays))

	// Stage A: ledger to payment.
	for _, e := range entries {
		if cfg.nonVerifiable(e.SourceHint) {
			r.ManualOnly = append(r.ManualOnly, e)
			continue
		}
		p, ok := claimPayment(e, on, pays, used, cfg)
		if !ok {
			r.UnmatchedEntries = append(r.UnmatchedEntries, e)
			continue
		}
		used[p.Identity] = true
		r.Pairs = append(r.Pairs, MatchedPair{Entry: e, Payment: p})
	}

	// Stage B: payment to order, one-to-one first.
	var pending []Order
	for _, o := range orders {
		p, ok := claimOrderPayment(o, pays, used, cfg)
		if !ok {
			pending = append(pending, o)
			continue
		}
		used[p.Identity] = true
		r.OrderMatches = append(r.OrderMatches, OrderMatch{Order: o, Payment: p})
	}
	r.UnmatchedOrders = claimOrderGroups(r, pending, pays, used, cfg)

	for _, p := range pays {
		if !used[p.Identity] {
			r.UnmatchedPayments = append(r.UnmatchedPayments, p)
		}
	}
	return r, nil
}

// claimPayment picks the best payment for a ledger hint: amount within the
// tight tolerance, inside the day window around the reconciliation date, not
// yet claimed. A payment whose instrument matches the hint's source beats the
// temporally closest one; among equals the earlier payment wins, then the
// smaller identity.
func claimPayment(e Entry, on date.Date, pays []Payment, used map[string]bool, cfg ReconcileConfig) (Payment, bool) {
	var best Payment
	found := false
	bestHint := false
	for _, p := range pays {
		if used[p.Identity] {
			continue
		}
		if !cfg.LedgerWindow.Contains(on, p.On()) {
			continue
		}
		if !AmountsClose(e.Amount, p.Amount, cfg.LedgerTolerance) {
			continue
		}
		hint := e.SourceHint != "" && p.Instrument == e.SourceHint
		if !found || better(hint, p, bestHint, best, on) {
			best, bestHint, found = p, hint, true
		}
	}
	return best, found
}

// better reports whether candidate (hint, p) beats the current (bestHint, best).
func better(hint bool, p Payment, bestHint bool, best Payment, on date.Date) bool {
	if hint != bestHint {
		return hint
	}
	pd, bd := dayDist(p.On(), on), dayDist(best.On(), on)
	if pd != bd {
		return pd < bd
	}
	if !p.OccurredAt.Equal(best.OccurredAt) {
		return p.OccurredAt.Before(best.OccurredAt)
	}
	return p.Identity < best.Identity
}

func dayDist(a, b date.Date) int {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

// claimOrderGroups settles several orders against one payment: for each still
// unclaimed payment, a bounded subset-sum search over the orders the one-to-one
// pass left behind. Only orders individually eligible against the payment
// (window and gap) are offered to the search; a matched group emits one
// OrderMatch per order, all claiming the same payment. It returns the orders
// no payment settles.
func claimOrderGroups(r *Report, pending []Order, pays []Payment, used map[string]bool, cfg ReconcileConfig) []Order {
	for _, p := range pays {
		// A lone pending order already had its chance one-to-one.
		if used[p.Identity] || len(pending) < 2 {
			continue
		}
		byID := make(map[string]Order, len(pending))
		var cands []Candidate
		for _, o := range pending {
			if !cfg.OrderWindow.Contains(o.On(), p.On()) {
				continue
			}
			gap := p.OccurredAt.Sub(o.When())
			if gap < 0 {
				gap = -gap
			}
			if gap > cfg.MaxGap {
				continue
			}
			byID[o.Identity] = o
			cands = append(cands, Candidate{Identity: o.Identity, Amount: o.Total, On: o.On()})
		}
		best := SubsetSum(cands, p.Amount, cfg.OrderTolerance, cfg.MaxSubset, p.On())
		if len(best) < 2 {
			continue
		}
		used[p.Identity] = true
		claimed := make(map[string]bool, len(best))
		for _, c := range best {
			claimed[c.Identity] = true
			r.OrderMatches = append(r.OrderMatches, OrderMatch{Order: byID[c.Identity], Payment: p})
		}
		rest := pending[:0]
		for _, o := range pending {
			if !claimed[o.Identity] {
				rest = append(rest, o)
			}
		}
		pending = rest
	}
	return pending
}

// claimOrderPayment picks the best payment for an order: amount within the
// looser tolerance, inside the wider window around the order's own date, and
// within the maximum allowed gap between payment and order times. Nearest in
// time wins, then the smaller identity.
func claimOrderPayment(o Order, pays []Payment, used map[string]bool, cfg ReconcileConfig) (Payment, bool) {
	var best Payment
	var bestGap time.Duration
	found := false
	for _, p := range pays {
		if used[p.Identity] {
			continue
		}
		if !cfg.OrderWindow.Contains(o.On(), p.On()) {
			continue
		}
		if !AmountsClose(o.Total, p.Amount, cfg.OrderTolerance) {
			continue
		}
		gap := p.OccurredAt.Sub(o.When())
		if gap < 0 {
			gap = -gap
		}
		if gap > cfg.MaxGap {
			continue
		}
		if !found || gap < bestGap || (gap == bestGap && p.Identity < best.Identity) {
			best, bestGap, found = p, gap, true
		}
	}
	return best, found
}
