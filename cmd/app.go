// Package cmd implements the CLI application around the ledger parser and
// the reconciliation engine.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"hisaab"
)

// Register the subcommands.
// A main package calls Register(), then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&parseCmd{}, "ledger")
	c.Register(&extractCmd{}, "ledger")

	c.Register(&reconcileCmd{}, "reconciliation")
	c.Register(&flattenCmd{}, "reconciliation")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var catalogPath = flag.String("catalog", "catalog.json", "Path to the reference catalog (JSON)")

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Logger()

// LoadCatalog is the central function to open the reference catalog.
func LoadCatalog() (*hisaab.Catalog, error) {
	f, err := os.Open(*catalogPath)
	if err != nil {
		return nil, fmt.Errorf("could not open catalog %q: %w", *catalogPath, err)
	}
	defer f.Close()
	return hisaab.DecodeCatalog(f)
}

// printMarkdown renders markdown for the terminal, degrading to the raw text
// when styling fails (e.g. no TTY).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// readInput reads a file, or stdin when the path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("could not read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", path, err)
	}
	return string(b), nil
}
