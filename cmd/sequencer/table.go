// cmd/sequencer/table.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamzrod/valve-sequencer/internal/mask"
	"github.com/tamzrod/valve-sequencer/internal/table"
)

func printTable(cmd *cobra.Command, args []string) error {
	tbl := table.MustNew()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BUTTONS\tKEY\tKEY_DEC\tPLAN\tPLAN_DEC")

	row := func(name string, key, plan mask.Mask) {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\n", name, key, key.Decimal(), plan, plan.Decimal())
	}

	row("startup", table.StartupKey, table.StartupPlan)
	for _, r := range tbl.Rows() {
		row(selection(r.Key), r.Key, r.Plan)
	}
	row("standard", table.StandardKey, table.StandardPlan)

	for i, mode := range mask.ModePriority {
		pair, _ := tbl.DilutePair(i)
		fmt.Fprintf(w, "dilute %s p1\t-\t-\t%s\t%d\n", mode, pair.Phase1, pair.Phase1.Decimal())
		fmt.Fprintf(w, "dilute %s p2\t-\t-\t%s\t%d\n", mode, pair.Phase2, pair.Phase2.Decimal())
	}

	return w.Flush()
}

// selection names the active buttons of a key, e.g. "purge+discrete".
func selection(key mask.Mask) string {
	var names []string
	for _, p := range key.ActivePositions() {
		if mask.GroupOf(p) != mask.GroupUnused {
			names = append(names, p.String())
		}
	}
	return strings.Join(names, "+")
}
