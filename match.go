package hisaab

import (
	"sort"
	"time"

	"hisaab/date"
)

// Matching primitives shared by the reconciliation engine and the order
// assignment logic. All tolerances are currency-unit amounts; callers pick a
// tight tolerance for ledger-to-payment matching and a looser one for
// payment-to-order matching.

// AmountsClose reports whether two amounts differ by at most tol. The
// boundary is inclusive: a difference exactly equal to tol matches.
func AmountsClose(a, b, tol Amount) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// WithinWindow reports whether a timestamp falls inside the day window
// [center-before, center+after], boundaries included.
func WithinWindow(ts time.Time, center date.Date, before, after int) bool {
	return date.Window{Before: before, After: after}.Contains(center, date.Of(ts))
}

// Candidate is one item offered to the subset-sum search.
type Candidate struct {
	Identity string
	Amount   Amount
	On       date.Date
}

// DefaultMaxSubset bounds the subset-sum enumeration. Beyond roughly a dozen
// candidates the 2^n search stops being tractable, and more than a dozen
// orders settling as one payment does not happen in practice.
const DefaultMaxSubset = 12

// SubsetSum searches for a subset of candidates whose total is within tol of
// target. The smallest-cardinality subset wins; ties are broken by the
// smallest total day distance to anchor, and remaining ties by a fixed
// enumeration order over identity-sorted candidates, so the result is a
// deterministic function of the candidate set regardless of input order.
// It returns nil when no subset qualifies.
//
// At most maxCandidates items are considered (DefaultMaxSubset when <= 0),
// taken in identity order.
func SubsetSum(cands []Candidate, target, tol Amount, maxCandidates int, anchor date.Date) []Candidate {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxSubset
	}

	// Deterministic total order over candidates before any truncation.
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Identity < sorted[j].Identity })
	if len(sorted) > maxCandidates {
		sorted = sorted[:maxCandidates]
	}

	var best []Candidate
	bestDist := 0
	for mask := 1; mask < 1<<len(sorted); mask++ {
		sum := A(0)
		size := 0
		dist := 0
		for i, c := range sorted {
			if mask&(1<<i) == 0 {
				continue
			}
			sum = sum.Add(c.Amount)
			size++
			d := c.On.Sub(anchor)
			if d < 0 {
				d = -d
			}
			dist += d
		}
		if !AmountsClose(sum, target, tol) {
			continue
		}
		if best == nil || size < len(best) || (size == len(best) && dist < bestDist) {
			best = subset(sorted, mask)
			bestDist = dist
		}
	}
	return best
}

func subset(cands []Candidate, mask int) []Candidate {
	out := make([]Candidate, 0)
	for i, c := range cands {
		if mask&(1<<i) != 0 {
			out = append(out, c)
		}
	}
	return out
}
