package cli

import (
	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/newsboard/internal/tui"
)

func newBrowseCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive article board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer a.close()
			return tui.Run(cmd.Context(), a.store)
		},
	}
}
