package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/failspec"
	"github.com/zero-day-ai/failspec/spec"
)

func discoverCmd(flags *rootFlags) *cobra.Command {
	var discoveredBy string

	cmd := &cobra.Command{
		Use:   "discover <description>",
		Short: "Record a post-freeze finding in the discovery ledger",
		Long: `Discover records a failure mode found after the document froze. The
finding gets the next sequential D### id and a pending disposition. Nothing
is merged into the frozen document; promoting a discovery means authoring a
new entry in the next revision.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := newGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			d, err := gov.Discover(cmd.Context(), args[0], discoveredBy)
			if err != nil {
				return err
			}

			fmt.Printf("recorded %s\n", d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&discoveredBy, "by", "", "Identity of the discoverer (required)")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func disposeCmd(flags *rootFlags) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "dispose [discovery-id] [disposition]",
		Short: "List discoveries or record a decision about one",
		Long: `Without arguments (or with --list), dispose prints the ledger. With a
discovery id and a disposition (pending, add_to_next, accepted_risk,
duplicate), it records the human decision.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := newGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			if list || len(args) == 0 {
				all, err := gov.Discoveries(cmd.Context())
				if err != nil {
					return err
				}
				for _, d := range all {
					fmt.Printf("%s  %-13s %s (%s)\n", d.ID, d.Disposition, d.Description, d.DiscoveredBy)
				}
				return nil
			}

			if len(args) != 2 {
				return fmt.Errorf("dispose needs a discovery id and a disposition")
			}
			disposition, err := spec.ParseDisposition(args[1])
			if err != nil {
				return err
			}

			d, err := gov.SetDisposition(cmd.Context(), args[0], disposition)
			if err != nil {
				return err
			}

			fmt.Printf("%s disposed as %s\n", d.ID, d.Disposition)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List the ledger")

	return cmd
}
