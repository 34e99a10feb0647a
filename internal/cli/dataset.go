package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"samarth/internal/application/commands"
	"samarth/internal/domain/dataset"
	"samarth/internal/infrastructure/persistence/file"

	"github.com/spf13/cobra"
)

func datasetCmd(opts *globalOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect and move the reference dataset",
	}
	c.AddCommand(datasetValidateCmd(opts))
	c.AddCommand(datasetExportCmd(opts))
	c.AddCommand(datasetImportCmd(opts))
	return c
}

func datasetValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configured dataset source and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, cleanup, err := opts.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := container.Source.Load(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", container.Source.Describe(), err)
			}
			return printSummary(cmd.OutOrStdout(), snap)
		},
	}
}

func printSummary(w io.Writer, snap *dataset.Snapshot) error {
	fmt.Fprintf(w, "source:  %s\nversion: %s\n\n", snap.Source(), snap.Version())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tRAINFALL\tCROPS")
	for _, r := range snap.Summary() {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Name, r.RainfallReadings, r.Crops)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nOK")
	return nil
}

func datasetExportCmd(opts *globalOptions) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "export",
		Short: "Write the configured dataset as a YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, cleanup, err := opts.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := container.Source.Load(ctx)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return file.Encode(cmd.OutOrStdout(), snap)
			}
			return file.NewSource(out).Write(ctx, snap)
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return c
}

func datasetImportCmd(opts *globalOptions) *cobra.Command {
	var from string

	c := &cobra.Command{
		Use:   "import",
		Short: "Write a YAML or JSON document into the configured dataset source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, cleanup, err := opts.container(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			f, err := os.Open(from)
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := file.Decode(f, dataset.WithSource("file:"+from))
			if err != nil {
				return err
			}
			if err := container.CommandBus.Send(ctx, commands.ImportDatasetCommand{Snapshot: snap}); err != nil {
				return fmt.Errorf("import into %s: %w", container.Source.Describe(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d regions into %s\n", snap.Len(), container.Source.Describe())
			return nil
		},
	}

	c.Flags().StringVar(&from, "from", "", "dataset document to import (required)")
	_ = c.MarkFlagRequired("from")
	return c
}
