package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"hisaab"
)

type flattenCmd struct {
	ordersFile string
	ledgerFile string
	recordID   string
}

func (*flattenCmd) Name() string     { return "flatten" }
func (*flattenCmd) Synopsis() string { return "flatten orders into line items, or expand a ledger record" }
func (*flattenCmd) Usage() string {
	return `hk flatten -o <orders.jsonl> [-l <records.jsonl> -id <record-id>]

  Without -id, flattens every order into its uniform {name, amount} item
  list. With -id, finds the orders settling the given ledger record (exact
  match first, then subset-sum over same-day orders) and prints the item
  rows it expands into; a total mismatch becomes an "other charges" row.
`
}

func (c *flattenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ordersFile, "o", "", "Orders jsonl file")
	f.StringVar(&c.ledgerFile, "l", "", "Ledger records jsonl file")
	f.StringVar(&c.recordID, "id", "", "Ledger record to expand")
}

func (c *flattenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	orders, err := decodeOrders(c.ordersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(orders) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no orders to flatten.")
		return subcommands.ExitSuccess
	}

	if c.recordID == "" {
		for _, o := range orders {
			items, err := hisaab.Flatten(o)
			if err != nil {
				logger.Warn().Str("order", o.Identity).Err(err).Msg("could not flatten")
				continue
			}
			printItems(o.Identity, items)
		}
		return subcommands.ExitSuccess
	}

	rec, err := findRecord(c.ledgerFile, c.recordID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := hisaab.Assign(rec, orders, hisaab.DefaultAssignConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(a.Used) == 0 {
		fmt.Printf("No order settles record %s (%s).\n", rec.ID, rec.Amount.Display())
		return subcommands.ExitSuccess
	}

	ids := make([]string, 0, len(a.Used))
	for _, o := range a.Used {
		ids = append(ids, o.Identity)
	}
	fmt.Printf("Record %s (%s) settles orders %s\n", rec.ID, rec.Amount.Display(), strings.Join(ids, ", "))
	printItems(rec.ID, a.Items)
	if a.Mismatch {
		logger.Warn().Str("record", rec.ID).Str("remainder", a.Remainder.String()).Msg("items do not sum to the ledger amount")
	}
	return subcommands.ExitSuccess
}

func printItems(owner string, items []hisaab.LineItem) {
	b := &strings.Builder{}
	fmt.Fprintf(b, "## %s\n\n", owner)
	fmt.Fprintf(b, "| Item | Amount |\n|:---|---:|\n")
	for _, it := range items {
		fmt.Fprintf(b, "| %s | %s |\n", strings.ReplaceAll(it.Name, "|", "\\|"), it.Amount.Display())
	}
	printMarkdown(b.String())
}

func findRecord(path, id string) (hisaab.Record, error) {
	if path == "" {
		return hisaab.Record{}, fmt.Errorf("-id requires a ledger file (-l)")
	}
	f, err := os.Open(path)
	if err != nil {
		return hisaab.Record{}, fmt.Errorf("could not open ledger %q: %w", path, err)
	}
	defer f.Close()
	records, err := hisaab.DecodeRecords(f)
	if err != nil {
		return hisaab.Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return hisaab.Record{}, fmt.Errorf("record %q not found in %q", id, path)
}
