package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"hisaab"
	"hisaab/date"
	"hisaab/renderer"
)

type reconcileCmd struct {
	date         string
	dayFile      string
	paymentsFile string
	ordersFile   string
	ledgerTol    float64
	orderTol     float64
	window       int
	preview      int
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "match one day's ledger against payments and orders" }
func (*reconcileCmd) Usage() string {
	return `hk reconcile -f <day.txt> -p <payments.jsonl> [-o <orders.jsonl>] [-d <date>]

  Extracts hints from the day file and reconciles them against payment
  notifications (stage A) and purchase orders (stage B). The report is
  recomputed from scratch; nothing is stored.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Reconciliation date (defaults to today)")
	f.StringVar(&c.dayFile, "f", "", "Day file with ledger hints (defaults to stdin)")
	f.StringVar(&c.paymentsFile, "p", "", "Payments jsonl file")
	f.StringVar(&c.ordersFile, "o", "", "Orders jsonl file (optional)")
	f.Float64Var(&c.ledgerTol, "tol", 1, "Amount tolerance for ledger matches")
	f.Float64Var(&c.orderTol, "order-tol", 5, "Amount tolerance for order matches")
	f.IntVar(&c.window, "w", 1, "Day window searched around the date for payments")
	f.IntVar(&c.preview, "n", 10, "Preview size per list in the summary")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := date.Today()
	if c.date != "" {
		var err error
		on, err = date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cat, err := LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	text, err := readInput(c.dayFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	hints, err := hisaab.ExtractEntries(text, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, e := range hints.Errors {
		logger.Warn().Str("line", e.Line).Msg(e.Reason)
	}

	pays, err := decodePayments(c.paymentsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	orders, err := decodeOrders(c.ordersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg := hisaab.DefaultReconcileConfig()
	cfg.LedgerTolerance = hisaab.A(c.ledgerTol)
	cfg.OrderTolerance = hisaab.A(c.orderTol)
	cfg.LedgerWindow = date.Window{Before: c.window, After: c.window}
	cfg.PreviewCap = c.preview
	nonVerifiable(cat, &cfg)

	report, err := hisaab.Reconcile(on, hints.Entries, pays, orders, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ReportMarkdown(report, cfg.PreviewCap))
	return subcommands.ExitSuccess
}

// nonVerifiable makes sure the catalog's cash instrument is always shunted to
// the manual-only bucket.
func nonVerifiable(cat *hisaab.Catalog, cfg *hisaab.ReconcileConfig) {
	for _, s := range cfg.NonVerifiable {
		if s == cat.CashSource {
			return
		}
	}
	cfg.NonVerifiable = append(cfg.NonVerifiable, cat.CashSource)
}

func decodePayments(path string) ([]hisaab.Payment, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open payments %q: %w", path, err)
	}
	defer f.Close()
	return hisaab.DecodePayments(f)
}

func decodeOrders(path string) ([]hisaab.Order, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open orders %q: %w", path, err)
	}
	defer f.Close()
	return hisaab.DecodeOrders(f)
}
