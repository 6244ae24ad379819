package hisaab

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// AliasKind tells what a bare catalog token stands for.
type AliasKind string

const (
	AliasSource   AliasKind = "source"
	AliasMerchant AliasKind = "merchant"
)

// Source is a payment instrument (bank account, card, UPI app, cash).
type Source struct {
	Display string `json:"display"`
}

// Alias maps a shorthand token to a source or merchant code.
type Alias struct {
	Kind  AliasKind `json:"kind"`
	Value string    `json:"value"`
}

// MerchantDefaults is the enrichment applied by external collaborators once a
// merchant is identified. The parser only copies it, never interprets it.
type MerchantDefaults struct {
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Merchant is a known payee.
type Merchant struct {
	Name    string           `json:"name"`
	Default MerchantDefaults `json:"default,omitempty"`
}

// Location is a known place code.
type Location struct {
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
}

// Catalog is the read-only reference data the parser resolves tokens against.
// It is always passed in explicitly; there is no implicit file-system fallback.
type Catalog struct {
	Sources   map[string]Source   `json:"sources"`
	Aliases   map[string]Alias    `json:"aliases"`
	Merchants map[string]Merchant `json:"merchants"`
	Locations map[string]Location `json:"locations"`

	// CashSource is the instrument code used when a line names none.
	CashSource string `json:"cashSource"`
}

// DecodeCatalog reads a catalog from its JSON form.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode catalog: %w", err)
	}
	if c.CashSource == "" {
		c.CashSource = "cash"
	}
	return &c, nil
}

// ResolveSource resolves a token into a source code, either directly or
// through an alias. The match is case-insensitive.
func (c *Catalog) ResolveSource(token string) (code string, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	lower := strings.ToLower(token)
	if _, ok := c.Sources[lower]; ok {
		return lower, true
	}
	if a, ok := c.Aliases[lower]; ok && a.Kind == AliasSource {
		return a.Value, true
	}
	return "", false
}

// ResolveLocation resolves a token into a location code. Both codes and
// display names are accepted, case-insensitively.
func (c *Catalog) ResolveLocation(token string) (code string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	if lower == "" {
		return "", false
	}
	if _, ok := c.Locations[lower]; ok {
		return lower, true
	}
	best := ""
	for code, loc := range c.Locations {
		if strings.EqualFold(loc.Name, lower) && (best == "" || code < best) {
			best = code
		}
	}
	return best, best != ""
}

// DefaultLocation returns the location marked default, or "".
func (c *Catalog) DefaultLocation() string {
	best := ""
	for code, loc := range c.Locations {
		if loc.Default && (best == "" || code < best) {
			best = code
		}
	}
	return best
}

// ResolveMerchantAlias resolves a token into a merchant code through the
// alias table only.
func (c *Catalog) ResolveMerchantAlias(token string) (code string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	if a, ok := c.Aliases[lower]; ok && a.Kind == AliasMerchant {
		return a.Value, true
	}
	return "", false
}

// MatchMerchant infers a merchant from a line body: the first word wins when
// it is a registered alias, otherwise a case-insensitive substring search
// over merchant display names.
func (c *Catalog) MatchMerchant(body string) (code string, ok bool) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return "", false
	}
	if code, ok := c.ResolveMerchantAlias(fields[0]); ok {
		return code, true
	}
	lower := strings.ToLower(body)
	// map iteration order is random; keep the smallest code so repeated
	// parses of the same block stay identical.
	best := ""
	for code, m := range c.Merchants {
		if m.Name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(m.Name)) && (best == "" || code < best) {
			best = code
		}
	}
	return best, best != ""
}
