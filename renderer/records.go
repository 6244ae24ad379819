package renderer

import (
	"fmt"
	"strings"

	"hisaab"
)

// RecordsMarkdown renders parsed records and line errors as a markdown table,
// for review before the records are persisted.
func RecordsMarkdown(res *hisaab.ParseResult) string {
	b := &strings.Builder{}

	fmt.Fprintf(b, "## Parsed %d record(s) for %s\n\n", len(res.Records), res.Date)
	if len(res.Records) > 0 {
		fmt.Fprintf(b, "| Kind | Amount | Source | Merchant | Notes |\n")
		fmt.Fprintf(b, "|:---|---:|:---|:---|:---|\n")
		for _, r := range res.Records {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
				r.Kind, r.Amount.Display(), r.Source, r.Merchant, cell(r))
		}
		fmt.Fprintf(b, "\n")
	}

	if len(res.Errors) > 0 {
		fmt.Fprintf(b, "## %d line error(s)\n\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(b, "- %s: `%s`\n", e.Reason, e.Line)
		}
		fmt.Fprintf(b, "\n")
	}
	return b.String()
}

func cell(r hisaab.Record) string {
	note := r.Notes
	if note == "" {
		note = r.Raw
	}
	if r.Counterparty != "" {
		note = fmt.Sprintf("%s (%s)", note, r.Counterparty)
	}
	if r.AdjustKind != "" {
		note = fmt.Sprintf("%s [%s]", note, r.AdjustKind)
	}
	// pipes would break the table
	return strings.ReplaceAll(note, "|", "\\|")
}
