package hisaab

import (
	"regexp"
	"strings"
)

// The modifier group, that is the trailing parenthesis of an amount line, is
// a comma-separated list of tokens. Each token is classified by an ordered list
// of independent recognizers; the first one that matches wins. Adding a new
// token shape means adding one recognizer, not re-reading a cascade.

type tokenKind int

const (
	tokenUnknown tokenKind = iota
	tokenSource            // a payment-source code or alias
	tokenLocation          // loc:CODE or a bare known place name
	tokenShare             // sw:Name amount
	tokenWholeShare        // sw-Name, the whole line attributed to one person
	tokenMovement          // "<amt> <from> to <to>"
	tokenSubItem           // "<label> <amount>", an itemized basket entry
)

// token is the tagged result of recognizing one modifier-group element.
type token struct {
	kind   tokenKind
	code   string // resolved source or location code
	name   string // share person or sub-item label
	amount Amount
	from   string // movement legs
	to     string
	raw    string
}

// recognizer classifies one trimmed modifier token, or reports no match.
type recognizer func(s string, cat *Catalog) (token, bool)

var (
	reLocToken = regexp.MustCompile(`(?i)^loc:\s*(\S+)$`)
	reShare    = regexp.MustCompile(`(?i)^sw:\s*(\S+)\s+([\d,]+(?:\.\d+)?)$`)
	reWhole    = regexp.MustCompile(`(?i)^sw-(\S+)$`)
	reMovement = regexp.MustCompile(`(?i)^([\d,]+(?:\.\d+)?)\s+(\S+)\s+to\s+(\S+)$`)
	reSubItem  = regexp.MustCompile(`^(.+?)\s+([\d,]+(?:\.\d+)?)$`)
	reSplitLeg = regexp.MustCompile(`^([\d,]+(?:\.\d+)?)\s+(\S+)$`)
)

func recognizeSource(s string, cat *Catalog) (token, bool) {
	code, ok := cat.ResolveSource(s)
	if !ok {
		return token{}, false
	}
	return token{kind: tokenSource, code: code, raw: s}, true
}

func recognizeLocation(s string, cat *Catalog) (token, bool) {
	if m := reLocToken.FindStringSubmatch(s); m != nil {
		// An explicit loc: override sticks even when the code is unknown.
		code, ok := cat.ResolveLocation(m[1])
		if !ok {
			code = strings.ToLower(m[1])
		}
		return token{kind: tokenLocation, code: code, raw: s}, true
	}
	if code, ok := cat.ResolveLocation(s); ok {
		return token{kind: tokenLocation, code: code, raw: s}, true
	}
	return token{}, false
}

func recognizeShare(s string, _ *Catalog) (token, bool) {
	m := reShare.FindStringSubmatch(s)
	if m == nil {
		return token{}, false
	}
	amt, err := ParseAmount(m[2])
	if err != nil || !amt.IsPositive() {
		return token{}, false
	}
	return token{kind: tokenShare, name: m[1], amount: amt, raw: s}, true
}

func recognizeWholeShare(s string, _ *Catalog) (token, bool) {
	m := reWhole.FindStringSubmatch(s)
	if m == nil {
		return token{}, false
	}
	return token{kind: tokenWholeShare, name: m[1], raw: s}, true
}

func recognizeMovement(s string, cat *Catalog) (token, bool) {
	m := reMovement.FindStringSubmatch(s)
	if m == nil {
		return token{}, false
	}
	amt, err := ParseAmount(m[1])
	if err != nil || !amt.IsPositive() {
		return token{}, false
	}
	from, ok := cat.ResolveSource(m[2])
	if !ok {
		from = strings.ToLower(m[2])
	}
	to, ok := cat.ResolveSource(m[3])
	if !ok {
		to = strings.ToLower(m[3])
	}
	return token{kind: tokenMovement, amount: amt, from: from, to: to, raw: s}, true
}

func recognizeSubItem(s string, _ *Catalog) (token, bool) {
	m := reSubItem.FindStringSubmatch(s)
	if m == nil {
		return token{}, false
	}
	amt, err := ParseAmount(m[2])
	if err != nil || !amt.IsPositive() {
		return token{}, false
	}
	return token{kind: tokenSubItem, name: strings.TrimSpace(m[1]), amount: amt, raw: s}, true
}

// recognizers in priority order: an explicit source or location beats the
// generic "<label> <amount>" shape.
var recognizers = []recognizer{
	recognizeSource,
	recognizeLocation,
	recognizeShare,
	recognizeWholeShare,
	recognizeMovement,
	recognizeSubItem,
}

// recognizeToken classifies one modifier token. Unrecognized tokens degrade
// to tokenUnknown; they are kept in notes, never raised as errors.
func recognizeToken(s string, cat *Catalog) token {
	s = strings.TrimSpace(s)
	if s == "" {
		return token{kind: tokenUnknown}
	}
	for _, r := range recognizers {
		if t, ok := r(s, cat); ok {
			return t
		}
	}
	return token{kind: tokenUnknown, raw: s}
}

// recognizeBodyItems detects an itemized basket written directly in the line
// body, e.g. "fruits 200, veggies 300". At least two comma-separated segments
// must all match the "<label> <amount>" shape, so ordinary descriptions that
// happen to end in a number do not itemize.
func recognizeBodyItems(body string) ([]token, bool) {
	segs := strings.Split(body, ",")
	if len(segs) < 2 {
		return nil, false
	}
	items := make([]token, 0, len(segs))
	for _, s := range segs {
		t, ok := recognizeSubItem(strings.TrimSpace(s), nil)
		if !ok {
			return nil, false
		}
		items = append(items, t)
	}
	return items, true
}

// splitLeg is one leg of a "+"-joined split, e.g. "30 mk" in "30 mk + 200 SBI".
type splitLeg struct {
	amount Amount
	source string
}

// recognizeSplitLegs detects a whole modifier group of the form
// "<amt> <source> + <amt> <source> [+ ...]". Every leg must name a resolvable
// source, otherwise the group falls back to ordinary token recognition.
func recognizeSplitLegs(group string, cat *Catalog) ([]splitLeg, bool) {
	if !strings.Contains(group, "+") {
		return nil, false
	}
	parts := strings.Split(group, "+")
	if len(parts) < 2 {
		return nil, false
	}
	legs := make([]splitLeg, 0, len(parts))
	for _, p := range parts {
		m := reSplitLeg.FindStringSubmatch(strings.TrimSpace(p))
		if m == nil {
			return nil, false
		}
		amt, err := ParseAmount(m[1])
		if err != nil || !amt.IsPositive() {
			return nil, false
		}
		code, ok := cat.ResolveSource(m[2])
		if !ok {
			return nil, false
		}
		legs = append(legs, splitLeg{amount: amt, source: code})
	}
	return legs, true
}
