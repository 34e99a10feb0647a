package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd(opts *globalOptions) *cobra.Command {
	var compact bool

	c := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and print the JSON response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, cleanup, err := opts.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := container.LoadDataset(ctx); err != nil {
				return err
			}

			resp, err := container.Dispatcher.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(resp)
		},
	}

	c.Flags().BoolVar(&compact, "compact", false, "print the response on one line")
	return c
}
