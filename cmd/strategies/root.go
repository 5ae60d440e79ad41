package strategies

import (
	"fmt"
	"io"

	"github.com/ValentinKolb/mapbench/lib/strategy"
	"github.com/spf13/cobra"
)

// StrategiesCmd lists all registered predicates and absorbers
var StrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available predicates and absorbers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printStrategies(cmd.OutOrStdout(), strategy.DefaultRegistry())
	},
}

func printStrategies(w io.Writer, r *strategy.Registry) {
	fmt.Fprintln(w, "Predicates (--predicate):")
	for _, p := range r.Predicates() {
		fmt.Fprintf(w, "  %-20s %s\n", p.Name, p.Description)
	}
	fmt.Fprintln(w, "  --predicate-expr     expression over current.key, current.value, candidate.key, candidate.value")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Absorbers (--absorb):")
	for _, a := range r.Absorbers() {
		fmt.Fprintf(w, "  %-20s %s\n", a.Name, a.Description)
	}
	fmt.Fprintln(w, "  --absorb-expr        expression over dst.key, dst.value, src.key, src.value")
}
