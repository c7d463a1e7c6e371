// Package report renders the FunctionRecord stream the way the
// reference tool always has: a single fixed-width table, sorted by
// name, or a plain notice when nothing was found.
package report

import (
	"fmt"
	"io"
	"sort"

	"programindexer/internal/config"
	"programindexer/pkg/record"
)

// Header is the column header line, preserved verbatim including its
// original spacing.
const Header = "Function name         scope               caller                source          line"

// Write sorts records per record.FunctionRecord's ordering rule and
// prints the fixed-width table, or a one-line notice if records is
// empty.
func Write(w io.Writer, records []record.FunctionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No functions were found!")
		return
	}
	sort.Sort(record.ByOrder(records))
	fmt.Fprintln(w, Header)
	for _, r := range records {
		fmt.Fprintln(w, r.String())
	}
}

// WriteGrouped is like Write, but when cfg declares project groups it
// prints each group's records under its own heading first, in the
// order the groups were declared, followed by everything left over
// under "Ungrouped". With no groups declared it behaves exactly like
// Write.
func WriteGrouped(w io.Writer, cfg config.Config, records []record.FunctionRecord) {
	if len(cfg.Groups) == 0 {
		Write(w, records)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No functions were found!")
		return
	}

	byGroup := make(map[string][]record.FunctionRecord)
	var leftover []record.FunctionRecord
	for _, r := range records {
		name := cfg.GroupFor(r.Location.FileName)
		if name == "" {
			leftover = append(leftover, r)
		} else {
			byGroup[name] = append(byGroup[name], r)
		}
	}

	for _, g := range cfg.Groups {
		grouped := byGroup[g.Name]
		if len(grouped) == 0 {
			continue
		}
		fmt.Fprintf(w, "== %s ==\n", g.Name)
		Write(w, grouped)
		fmt.Fprintln(w)
	}
	if len(leftover) > 0 {
		fmt.Fprintln(w, "== Ungrouped ==")
		Write(w, leftover)
	}
}
