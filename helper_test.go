package hisaab

import "testing"

// testCatalog builds the reference catalog used across tests: two bank-ish
// sources, a cash instrument, a couple of merchants and two places.
func testCatalog() *Catalog {
	return &Catalog{
		Sources: map[string]Source{
			"mk":   {Display: "Mobikwik"},
			"sbi":  {Display: "SBI"},
			"cash": {Display: "Cash"},
		},
		Aliases: map[string]Alias{
			"mobikwik": {Kind: AliasSource, Value: "mk"},
			"swiggy":   {Kind: AliasMerchant, Value: "swiggy"},
		},
		Merchants: map[string]Merchant{
			"swiggy": {Name: "Swiggy", Default: MerchantDefaults{Category: "Food"}},
			"zepto":  {Name: "Zepto"},
		},
		Locations: map[string]Location{
			"blr": {Name: "Bangalore", Default: true},
			"hyd": {Name: "Hyderabad"},
		},
		CashSource: "cash",
	}
}

// mustParse parses a block with deterministic ids and fails the test on a
// programmer error.
func mustParse(t *testing.T, text string) *ParseResult {
	t.Helper()
	res, err := Parse(text, testCatalog(), SequenceIDs("r"))
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", text, err)
	}
	return res
}
