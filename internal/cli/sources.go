package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newSourcesCommand(root *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the sources offered by the news API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			a, err := setup(cmd, root)
			if err != nil {
				return err
			}
			defer a.close()

			if !a.store.GetSources(cmd.Context()) {
				return errors.New("no sources fetched (see log for details)")
			}
			return writeSources(cmd.OutOrStdout(), output, a.store.State().Sources)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}
