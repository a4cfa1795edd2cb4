package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smazurov/inkbadge/internal/fault"
)

// CreateFaultsCmd creates the faults command.
func CreateFaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faults",
		Short: "Print the fault code to LED pattern table",
		Long:  `Lists every fault ordinal with the LEDs (A to E) it lights when the badge halts.`,
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tFAULT\tABCDE")
			for code := fault.Code(0); code < fault.NumCodes; code++ {
				fmt.Fprintf(w, "%d\t%s\t%s\n", code, code, patternString(fault.Pattern(code)))
			}
			w.Flush()
		},
	}
}

func patternString(p [5]bool) string {
	var sb strings.Builder
	for _, on := range p {
		if on {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
