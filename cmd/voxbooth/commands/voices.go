// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the active voice set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := globalConfig.Voices.Table()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VOICE\tRATE\tFILTERS\tECHO")

		for _, id := range table.Active() {
			recipe, err := table.Lookup(id)
			if err != nil {
				fmt.Fprintf(w, "%s\t-\tinvalid: %v\t-\n", id, err)
				continue
			}

			echo := "-"
			if fb := recipe.Feedback; fb != nil {
				echo = fmt.Sprintf("%.2fs x%.2f", fb.DelaySeconds, fb.FeedbackGain)
			}

			filters := ""
			for i, f := range recipe.Filters {
				if i > 0 {
					filters += ", "
				}
				filters += fmt.Sprintf("%s %gHz", f.Kind, f.FrequencyHz)
				if f.GainDB != 0 {
					filters += fmt.Sprintf(" %+gdB", f.GainDB)
				}
			}
			if filters == "" {
				filters = "-"
			}

			fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n", id, recipe.PlaybackRate, filters, echo)
		}

		return w.Flush()
	},
}
