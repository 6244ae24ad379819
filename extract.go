package hisaab

import (
	"errors"
	"strings"
)

// Entry is a loosely-parsed transaction hint from a single day's ledger file.
// It carries just enough for reconciliation: an amount and source/merchant
// hints. It is never persisted as a final transaction.
type Entry struct {
	Amount       Amount `json:"amount"`
	Raw          string `json:"raw"`
	Desc         string `json:"desc,omitempty"`
	SourceHint   string `json:"source,omitempty"`
	MerchantHint string `json:"merchant,omitempty"`
}

// ExtractResult is the outcome of extracting hints from one day file.
type ExtractResult struct {
	Entries []Entry
	Errors  []ParseError
}

// ExtractEntries reads a single day's ledger file into hint entries. The
// grammar is deliberately reduced: only the amount prefix and the trailing
// parenthesis are interpreted; no day headers, no splitting, no type
// inference. Comment lines (leading '#') are skipped. The date belongs to the
// caller.
func ExtractEntries(text string, cat *Catalog) (*ExtractResult, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}

	res := &ExtractResult{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := reAmountLine.FindStringSubmatch(line)
		if m == nil {
			res.Errors = append(res.Errors, ParseError{Line: line, Reason: "missing amount prefix"})
			continue
		}
		amount, err := ParseAmount(m[1])
		if err != nil || !amount.IsPositive() {
			res.Errors = append(res.Errors, ParseError{Line: line, Reason: "invalid amount"})
			continue
		}

		e := Entry{Amount: amount, Raw: line, Desc: strings.TrimSpace(m[2])}

		if pm := reTrailingModifier.FindStringSubmatch(e.Desc); pm != nil {
			e.Desc = strings.TrimSpace(pm[1])
			for _, field := range strings.Split(pm[2], ",") {
				if code, ok := cat.ResolveSource(field); ok && e.SourceHint == "" {
					e.SourceHint = code
				}
			}
		}
		if code, ok := cat.MatchMerchant(e.Desc); ok {
			e.MerchantHint = code
		}

		res.Entries = append(res.Entries, e)
	}
	return res, nil
}
