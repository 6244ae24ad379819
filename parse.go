package hisaab

import (
	"errors"
	"regexp"
	"strings"

	"hisaab/date"
)

// ParseError is one malformed line of a ledger block. Malformed lines never
// abort the batch; they are collected here and parsing moves on.
type ParseError struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

// ParseResult is the outcome of parsing one ledger block.
type ParseResult struct {
	// Date is the last day-header date seen, or today when the block has none.
	Date    date.Date
	Records []Record
	Errors  []ParseError
}

var (
	// A day header: "2/1/2025" optionally followed by a bracketed place, "[blr]".
	reDayHeader = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\s*(?:\[([^\]]+)\])?\s*$`)
	// An amount-prefixed line: "120/- Tea at office".
	reAmountLine = regexp.MustCompile(`^([\d,]+(?:\.\d+)?)/-\s*(.*)$`)
	// Patterns a freeform paragraph is broken on, so one pasted blob becomes
	// one logical line per transaction.
	reDayHeaderInline  = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}\s*(?:\[[^\]]+\])?`)
	reAmountPrefixAny  = regexp.MustCompile(`[\d,]+(?:\.\d+)?/-`)
	reLeadingCommand   = regexp.MustCompile(`^\s*/\w+\s*`)
	reTrailingModifier = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*$`)
	reReceivedFrom     = regexp.MustCompile(`(?i)^(.*?)\breceived\s+from\b\s*(.*)$`)
	reTransferBody     = regexp.MustCompile(`^(\S+)\s+to\s+(.+)$`)
	reCashback         = regexp.MustCompile(`(?i)\bgot\s+([\d,]+(?:\.\d+)?)\s+cashback\b`)
	reRefund           = regexp.MustCompile(`(?i)\bgot\s+([\d,]+(?:\.\d+)?)\s+refunded\b`)
)

// Parse converts one ledger text block into typed records plus per-line parse
// errors. It returns an error only for structurally invalid arguments; bad
// input lines land in ParseResult.Errors.
func Parse(text string, cat *Catalog, ids IDSource) (*ParseResult, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if ids == nil {
		ids = RandomIDs()
	}

	p := &parser{
		cat:      cat,
		ids:      ids,
		today:    date.Today(),
		location: cat.DefaultLocation(),
	}
	p.date = p.today

	for _, line := range normalizeBlock(text) {
		p.parseLine(line)
	}

	return &ParseResult{Date: p.date, Records: p.records, Errors: p.errs}, nil
}

// parser holds the state carried across lines of one block.
type parser struct {
	cat      *Catalog
	ids      IDSource
	today    date.Date
	date     date.Date // set by the latest day header
	location string    // set by a day header suffix or a loc: token

	records []Record
	errs    []ParseError
}

// normalizeBlock splits a freeform paragraph into logical lines: a line break
// is inserted before every day header and every amount prefix, the leading
// command token is stripped, and blank lines are dropped.
func normalizeBlock(text string) []string {
	text = reLeadingCommand.ReplaceAllString(text, "")
	text = reDayHeaderInline.ReplaceAllString(text, "\n$0")
	text = reAmountPrefixAny.ReplaceAllString(text, "\n$0")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *parser) parseLine(line string) {
	if m := reDayHeader.FindStringSubmatch(line); m != nil {
		d, err := date.ParseHeader(m[1])
		if err != nil {
			p.errs = append(p.errs, ParseError{Line: line, Reason: err.Error()})
			return
		}
		p.date = d
		if m[2] != "" {
			if code, ok := p.cat.ResolveLocation(m[2]); ok {
				p.location = code
			} else {
				p.location = strings.ToLower(strings.TrimSpace(m[2]))
			}
		}
		return
	}

	m := reAmountLine.FindStringSubmatch(line)
	if m == nil {
		p.errs = append(p.errs, ParseError{Line: line, Reason: "missing amount prefix"})
		return
	}
	amount, err := ParseAmount(m[1])
	if err != nil || !amount.IsPositive() {
		p.errs = append(p.errs, ParseError{Line: line, Reason: "invalid amount"})
		return
	}

	p.parseAmountLine(line, amount, strings.TrimSpace(m[2]))
}

// lineParts is an amount line split into its body and modifier tokens.
type lineParts struct {
	raw    string
	amount Amount
	body   string

	source   string
	location string
	shares   []token // sw:Name amount
	whole    *token  // sw-Name
	moves    []token // inline money movements
	subItems []token // itemized basket entries
	legs     []splitLeg
	unknown  []string
}

func (p *parser) splitModifiers(raw string, amount Amount, body string) lineParts {
	parts := lineParts{raw: raw, amount: amount, body: body}

	m := reTrailingModifier.FindStringSubmatch(body)
	if m == nil {
		p.splitBodyItems(&parts)
		return parts
	}
	parts.body = strings.TrimSpace(m[1])
	group := m[2]

	if legs, ok := recognizeSplitLegs(group, p.cat); ok {
		parts.legs = legs
		return parts
	}

	for _, field := range strings.Split(group, ",") {
		t := recognizeToken(field, p.cat)
		switch t.kind {
		case tokenSource:
			parts.source = t.code
		case tokenLocation:
			parts.location = t.code
		case tokenShare:
			parts.shares = append(parts.shares, t)
		case tokenWholeShare:
			whole := t
			parts.whole = &whole
		case tokenMovement:
			parts.moves = append(parts.moves, t)
		case tokenSubItem:
			parts.subItems = append(parts.subItems, t)
		default:
			if t.raw != "" {
				parts.unknown = append(parts.unknown, t.raw)
			}
		}
	}
	p.splitBodyItems(&parts)
	return parts
}

// splitBodyItems promotes an itemized body ("fruits 200, veggies 300") into
// sub-item tokens, ahead of any sub-items named in the modifier group.
func (p *parser) splitBodyItems(parts *lineParts) {
	items, ok := recognizeBodyItems(parts.body)
	if !ok {
		return
	}
	parts.subItems = append(items, parts.subItems...)
}

func (p *parser) parseAmountLine(raw string, amount Amount, body string) {
	parts := p.splitModifiers(raw, amount, body)

	start := len(p.records)
	switch {
	case p.emitIncome(parts):
	case p.emitTransfer(parts):
	case len(parts.legs) > 0:
		p.emitSplitLegs(parts)
	case len(parts.shares) > 0 && p.emitShares(parts):
	case len(parts.subItems) > 0:
		p.emitSubItems(parts)
	default:
		p.emitExpense(parts)
	}

	p.emitMovements(parts)
	p.emitAdjustments(parts, start)
	p.shareGroup(start)
}

// newRecord builds a record with the line-level state applied.
func (p *parser) newRecord(kind Kind, amount Amount, parts lineParts) Record {
	loc := parts.location
	if loc == "" {
		loc = p.location
	}
	src := parts.source
	if src == "" {
		src = p.cat.CashSource
	}
	return Record{
		ID:       p.ids.NewID(),
		Date:     p.date,
		Kind:     kind,
		Amount:   amount,
		Source:   src,
		Location: loc,
		Raw:      parts.raw,
		Status:   StatusOK,
	}
}

// emitIncome handles "received from" lines.
func (p *parser) emitIncome(parts lineParts) bool {
	m := reReceivedFrom.FindStringSubmatch(parts.body)
	if m == nil {
		return false
	}
	rec := p.newRecord(Income, parts.amount, parts)
	rec.Counterparty = strings.TrimSpace(m[2])
	rec.Notes = parts.body
	p.records = append(p.records, rec)
	return true
}

// emitTransfer handles "<source> to <destination>" bodies with no modifiers.
func (p *parser) emitTransfer(parts lineParts) bool {
	if parts.source != "" || len(parts.shares) > 0 || len(parts.subItems) > 0 || len(parts.legs) > 0 {
		return false
	}
	m := reTransferBody.FindStringSubmatch(parts.body)
	if m == nil {
		return false
	}
	from, ok := p.cat.ResolveSource(m[1])
	if !ok {
		return false
	}
	rec := p.newRecord(Transfer, parts.amount, parts)
	rec.Source = from
	rec.Notes = strings.TrimSpace(m[2])
	p.records = append(p.records, rec)
	return true
}

// emitSplitLegs expands "30 mk + 200 SBI" into one record per leg. Merchant
// and category stay blank on the legs; enrichment resolves them per leg.
func (p *parser) emitSplitLegs(parts lineParts) {
	for _, leg := range parts.legs {
		rec := p.newRecord(Expense, leg.amount, parts)
		rec.Source = leg.source
		rec.Notes = parts.body
		p.records = append(p.records, rec)
	}
}

// emitShares expands splitwise shares: one expense for my share, one
// splitwise record per named share. It refuses degenerate shares (sum not
// strictly between zero and the line amount) and reports false so the line
// falls back to a plain expense.
func (p *parser) emitShares(parts lineParts) bool {
	total := A(0)
	for _, s := range parts.shares {
		total = total.Add(s.amount)
	}
	if !total.IsPositive() || total.GreaterThanOrEqual(parts.amount) {
		return false
	}

	mine := p.newRecord(Expense, parts.amount.Sub(total), parts)
	p.inferMerchant(&mine, parts.body)
	p.records = append(p.records, mine)

	for _, s := range parts.shares {
		rec := p.newRecord(Splitwise, s.amount, parts)
		rec.Counterparty = s.name
		rec.Tags = []string{TagSplitwise}
		rec.Notes = parts.body
		p.records = append(p.records, rec)
	}
	return true
}

// emitSubItems replaces the single row with one record per labeled sub-item.
// Each sub-item label becomes the record's raw text for downstream
// categorization.
func (p *parser) emitSubItems(parts lineParts) {
	for _, it := range parts.subItems {
		rec := p.newRecord(Expense, it.amount, parts)
		rec.Raw = it.name
		p.inferMerchant(&rec, it.name)
		p.records = append(p.records, rec)
	}
}

// emitExpense is the default path: one expense record for the whole line.
func (p *parser) emitExpense(parts lineParts) {
	rec := p.newRecord(Expense, parts.amount, parts)
	if parts.whole != nil {
		rec.Kind = Splitwise
		rec.Counterparty = parts.whole.name
		rec.Tags = []string{TagSplitwise}
	}
	p.inferMerchant(&rec, parts.body)
	p.records = append(p.records, rec)
}

// emitMovements appends one transfer per inline money-movement token.
func (p *parser) emitMovements(parts lineParts) {
	for _, mv := range parts.moves {
		rec := p.newRecord(Transfer, mv.amount, parts)
		rec.Source = mv.from
		rec.Notes = "to " + mv.to
		rec.Tags = []string{TagCashflow}
		p.records = append(p.records, rec)
	}
}

// emitAdjustments scans the body for "got N cashback" / "got N refunded" and
// appends one adjustment per match, linked to the line's first record.
func (p *parser) emitAdjustments(parts lineParts, start int) {
	if start >= len(p.records) {
		return
	}
	origin := p.records[start]

	emit := func(kind string, matches [][]string) {
		for _, m := range matches {
			amt, err := ParseAmount(m[1])
			if err != nil || !amt.IsPositive() {
				continue
			}
			rec := p.newRecord(Adjustment, amt, parts)
			rec.Source = origin.Source
			rec.AdjustKind = kind
			rec.LinkedID = origin.ID
			p.records = append(p.records, rec)
		}
	}
	emit(AdjustCashback, reCashback.FindAllStringSubmatch(parts.body, -1))
	emit(AdjustRefund, reRefund.FindAllStringSubmatch(parts.body, -1))
}

// shareGroup stamps a fresh group id on all records emitted for one line,
// when the line produced more than one.
func (p *parser) shareGroup(start int) {
	if len(p.records)-start < 2 {
		return
	}
	group := p.ids.NewID()
	for i := start; i < len(p.records); i++ {
		p.records[i].GroupID = group
	}
}

// inferMerchant fills the merchant code from the catalog, or keeps the body
// as notes when nothing matches. Transfers never carry a merchant.
func (p *parser) inferMerchant(rec *Record, body string) {
	if rec.Kind == Transfer || body == "" {
		return
	}
	if code, ok := p.cat.MatchMerchant(body); ok {
		rec.Merchant = code
		return
	}
	rec.Notes = body
}
