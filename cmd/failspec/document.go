package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/failspec"
	"github.com/zero-day-ai/failspec/spec"
)

func initCmd(flags *rootFlags) *cobra.Command {
	var (
		feature   string
		createdBy string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty failure specification document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flags.file); err == nil {
				return fmt.Errorf("%s already exists", flags.file)
			}

			gov, err := newGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			if err := gov.Init(feature, createdBy); err != nil {
				return err
			}
			if err := gov.SaveAs(flags.file); err != nil {
				return err
			}

			fmt.Printf("created %s for feature %q\n", flags.file, feature)
			return nil
		},
	}

	cmd.Flags().StringVar(&feature, "feature", "", "Feature the specification covers (required)")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Author of the specification")
	_ = cmd.MarkFlagRequired("feature")

	return cmd
}

func validateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the document for structural errors and lint warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			report := gov.Validate()
			fmt.Println(report)
			if !report.Valid() {
				return fmt.Errorf("%d error(s)", len(report.Errors))
			}
			return nil
		},
	}
}

func freezeCmd(flags *rootFlags) *cobra.Command {
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "freeze",
		Short: "Make the document immutable",
		Long: `Freeze makes the document immutable: structural fields of every entry are
locked, and only status records may change afterwards. The freeze records a
provenance fingerprint, by default the git HEAD of the workspace.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			if err := gov.Freeze(cmd.Context(), fingerprint); err != nil {
				return err
			}
			if err := gov.Save(); err != nil {
				return err
			}

			doc := gov.Document()
			fmt.Printf("frozen %s at %s", flags.file, doc.Metadata.FrozenAt.Format("2006-01-02 15:04:05"))
			if doc.Metadata.FrozenFingerprint != "" {
				fmt.Printf(" (fingerprint %s)", doc.Metadata.FrozenFingerprint)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Provenance token to record (default: workspace git HEAD)")

	return cmd
}

func statusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status [entry-id]",
		Short: "Show the lifecycle state of every entry, or one entry in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			doc := gov.Document()
			if len(args) == 1 {
				return printEntryStatus(doc, args[0])
			}

			for _, entry := range doc.Failures {
				state := entry.Status.State
				if state == "" {
					state = "unaddressed"
				}
				fmt.Printf("%s  %-13s %-8s %s\n", entry.ID, state, entry.Severity, entry.Title)
			}
			return nil
		},
	}
}

// printEntryStatus renders one entry in detail: state, guardrail,
// verification outcome, and the transition history.
func printEntryStatus(doc *spec.Document, id string) error {
	entry := doc.FindEntry(id)
	if entry == nil {
		return fmt.Errorf("entry %s not found", id)
	}

	state := entry.Status.State
	if state == "" {
		state = spec.StateUnaddressed
	}
	fmt.Printf("%s  %s\n", entry.ID, entry.Title)
	fmt.Printf("severity: %s\n", entry.Severity)
	fmt.Printf("state: %s\n", state)

	if g := entry.Status.Guardrail; g != nil {
		fmt.Printf("guardrail: %s (%s, by %s)\n", g.Design, g.Location, g.ImplementedBy)
	}
	if v := entry.Status.Verification; v != nil {
		fmt.Printf("verified: %s by %s (%s)\n",
			v.VerifiedAt.Format("2006-01-02 15:04:05"), v.VerifiedBy, v.Method)
	}
	if r := entry.Status.Rejection; r != nil {
		fmt.Printf("last rejection: %s (%s)\n", r.Reason, r.RejectedBy)
	}
	if ra := entry.Status.RiskAcceptance; ra != nil {
		fmt.Printf("risk accepted: %s by %s\n", ra.Reason, ra.AcceptedBy)
	}

	if len(entry.Status.History) > 0 {
		fmt.Println("history:")
		for _, tr := range entry.Status.History {
			fmt.Printf("  %s  %s -> %s  %s (%s)", tr.At.Format("2006-01-02 15:04:05"), tr.From, tr.To, tr.Actor, tr.Role)
			if tr.Reason != "" {
				fmt.Printf("  %s", tr.Reason)
			}
			fmt.Println()
		}
	}
	return nil
}

func reportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a status summary of the document and the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			summary, err := gov.Report(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		},
	}
}

func priorityCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "priority",
		Short: "List entries in descending priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			for _, ranked := range gov.Rank() {
				fmt.Printf("%5d  %s  %-8s %s\n",
					ranked.Score, ranked.Entry.ID, ranked.Entry.Severity, ranked.Entry.Title)
			}
			return nil
		},
	}
}
