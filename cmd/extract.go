package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"hisaab"
)

type extractCmd struct {
	inputFile string
}

func (*extractCmd) Name() string     { return "extract" }
func (*extractCmd) Synopsis() string { return "extract reconciliation hints from a day file" }
func (*extractCmd) Usage() string {
	return `hk extract [-f <day.txt>]

  Reads a single day's ledger file with the reduced grammar (amount prefix
  and source hints only) and writes hint entries as jsonl to stdout. Comment
  lines starting with '#' are skipped.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputFile, "f", "", "Day file (defaults to stdin)")
}

func (c *extractCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	res, err := hisaab.ExtractEntries(text, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, e := range res.Errors {
		logger.Warn().Str("line", e.Line).Msg(e.Reason)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, entry := range res.Entries {
		if err := enc.Encode(entry); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
