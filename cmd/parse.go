package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"hisaab"
	"hisaab/renderer"
)

type parseCmd struct {
	inputFile  string
	ledgerFile string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "parse a ledger block into transaction records" }
func (*parseCmd) Usage() string {
	return `hk parse [-f <block.txt>] [-l <records.jsonl>]

  Parses a freeform ledger block (from a file or stdin) into typed records.
  Malformed lines are reported, never abort the block. With -l the records
  are appended to a jsonl ledger file.

Usage Examples:
# Parse a pasted block from stdin and review it.
$ hk parse
# Parse and append to the ledger.
$ hk parse -f today.txt -l records.jsonl
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputFile, "f", "", "Ledger block file (defaults to stdin)")
	f.StringVar(&c.ledgerFile, "l", "", "Append parsed records to this jsonl file")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := readInput(c.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cat, err := LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res, err := hisaab.Parse(text, cat, hisaab.RandomIDs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, e := range res.Errors {
		logger.Warn().Str("line", e.Line).Msg(e.Reason)
	}

	printMarkdown(renderer.RecordsMarkdown(res))

	if c.ledgerFile == "" {
		return subcommands.ExitSuccess
	}
	// Open the file in append mode, creating it if it doesn't exist.
	out, err := os.OpenFile(c.ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := hisaab.EncodeRecords(out, res.Records); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Appended %d record(s) to %s\n", len(res.Records), c.ledgerFile)
	return subcommands.ExitSuccess
}
