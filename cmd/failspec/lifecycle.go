package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/failspec"
	"github.com/zero-day-ai/failspec/lifecycle"
	"github.com/zero-day-ai/failspec/spec"
)

func claimCmd(flags *rootFlags) *cobra.Command {
	var (
		actor    string
		role     string
		design   string
		location string
	)

	cmd := &cobra.Command{
		Use:   "claim <entry-id>",
		Short: "Claim a fix for an entry, recording the guardrail",
		Long: `Claim records that a guardrail has been implemented for an entry: what the
mitigation is, where it lives (path[:start[-end]]), and who built it. An
unaddressed entry is started first, so both transitions land in the history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := lifecycle.ParseRole(role)
			if err != nil {
				return err
			}

			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			guardrail := spec.Guardrail{
				Design:        design,
				Location:      location,
				ImplementedBy: actor,
			}
			if err := gov.Claim(args[0], actor, parsedRole, guardrail); err != nil {
				return err
			}
			if err := gov.Save(); err != nil {
				return err
			}

			fmt.Printf("%s claimed by %s\n", args[0], actor)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Identity of the builder (required)")
	cmd.Flags().StringVar(&role, "role", "builder", "Acting role")
	cmd.Flags().StringVar(&design, "design", "", "What the guardrail does (required)")
	cmd.Flags().StringVar(&location, "location", "", "Where the guardrail lives, path[:start[-end]] (required)")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("design")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func verifyCmd(flags *rootFlags) *cobra.Command {
	var (
		actor    string
		role     string
		evidence string
		method   string
	)

	cmd := &cobra.Command{
		Use:   "verify <entry-id>",
		Short: "Verify a claimed fix with collected or supplied evidence",
		Long: `Verify substantiates a claimed fix. Without --evidence, the evidence
collector runs the entry's evidence requirement in the workspace; with
--evidence, the supplied text is recorded as externally produced proof.
Absent or failed evidence leaves the entry claimed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := lifecycle.ParseRole(role)
			if err != nil {
				return err
			}

			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			if err := gov.Verify(cmd.Context(), args[0], actor, parsedRole, evidence, method); err != nil {
				return err
			}
			if err := gov.Save(); err != nil {
				return err
			}

			fmt.Printf("%s verified by %s\n", args[0], actor)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Identity of the verifier (required)")
	cmd.Flags().StringVar(&role, "role", "verifier", "Acting role")
	cmd.Flags().StringVar(&evidence, "evidence", "", "Externally produced evidence (skips collection)")
	cmd.Flags().StringVar(&method, "method", "", "How external evidence was produced")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func rejectCmd(flags *rootFlags) *cobra.Command {
	var (
		actor  string
		role   string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "reject <entry-id>",
		Short: "Reject a claimed fix, sending the entry back to unaddressed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := lifecycle.ParseRole(role)
			if err != nil {
				return err
			}

			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			if err := gov.Reject(args[0], actor, parsedRole, reason); err != nil {
				return err
			}
			if err := gov.Save(); err != nil {
				return err
			}

			fmt.Printf("%s rejected: %s\n", args[0], reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Identity of the verifier (required)")
	cmd.Flags().StringVar(&role, "role", "verifier", "Acting role")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the claim fails (required)")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func acceptRiskCmd(flags *rootFlags) *cobra.Command {
	var (
		role       string
		reason     string
		acceptedBy string
		reviewBy   string
	)

	cmd := &cobra.Command{
		Use:   "accept-risk <entry-id>",
		Short: "Accept an entry as a known risk on human authority",
		Long: `Accept-risk marks an entry as a consciously accepted failure mode. The
accepting identity must be human: identities that look automated (agent,
bot, ai, claude, gpt, assistant) are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := lifecycle.ParseRole(role)
			if err != nil {
				return err
			}

			gov, err := loadedGovernor(flags)
			if err != nil {
				return err
			}
			defer failspec.CloseWithLog(gov, nil, "governor")

			if err := gov.AcceptRisk(args[0], parsedRole, reason, acceptedBy, reviewBy); err != nil {
				return err
			}
			if err := gov.Save(); err != nil {
				return err
			}

			fmt.Printf("%s accepted as risk by %s\n", args[0], acceptedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "resolver", "Acting role")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the risk is acceptable (required)")
	cmd.Flags().StringVar(&acceptedBy, "accepted-by", "", "Human identity accepting the risk (required)")
	cmd.Flags().StringVar(&reviewBy, "review-by", "", "When to revisit the acceptance")
	_ = cmd.MarkFlagRequired("reason")
	_ = cmd.MarkFlagRequired("accepted-by")

	return cmd
}
