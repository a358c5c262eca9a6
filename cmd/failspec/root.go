package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/failspec"
	"github.com/zero-day-ai/failspec/discovery"
	"github.com/zero-day-ai/failspec/freeze"
)

const (
	Version = "0.1.0"
	appName = "failspec"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	file            string
	workspace       string
	ledgerPath      string
	redisURL        string
	guardPolicy     string
	logLevel        string
	evidenceTimeout time.Duration
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Governance engine for failure specifications",
		Long: `Failspec governs failure specification documents.

A failure specification enumerates the ways a feature can fail, each with a
testable oracle, reproduction steps, and an evidence requirement. Failspec
validates the document, freezes it against structural edits, walks entries
through the builder/verifier lifecycle with collected evidence, and records
post-freeze findings in a separate discovery ledger.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.file, "file", "f", "failspec.yaml", "Failure specification document path")
	pf.StringVar(&flags.workspace, "workspace", ".", "Workspace evidence collection runs in")
	pf.StringVar(&flags.ledgerPath, "ledger", "failspec-ledger.yaml", "Discovery ledger file path")
	pf.StringVar(&flags.redisURL, "redis-url", "", "Redis URL for a shared discovery ledger (overrides --ledger)")
	pf.StringVar(&flags.guardPolicy, "guard-policy", "reject", "Post-freeze policy for structural writes (reject, redirect)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.DurationVar(&flags.evidenceTimeout, "evidence-timeout", 0, "Bound on each evidence collection run (default 30s)")

	cmd.AddCommand(
		initCmd(flags),
		validateCmd(flags),
		freezeCmd(flags),
		statusCmd(flags),
		reportCmd(flags),
		priorityCmd(flags),
		claimCmd(flags),
		verifyCmd(flags),
		rejectCmd(flags),
		acceptRiskCmd(flags),
		discoverCmd(flags),
		disposeCmd(flags),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

// newGovernor builds a governor from the persistent flags.
func newGovernor(flags *rootFlags) (*failspec.Governor, error) {
	level := slog.LevelWarn
	switch strings.ToLower(flags.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	policy, err := freeze.ParsePolicy(flags.guardPolicy)
	if err != nil {
		return nil, err
	}

	var store discovery.Store
	if flags.redisURL != "" {
		store, err = discovery.NewRedisStore(discovery.RedisOptions{URL: flags.redisURL})
	} else {
		store, err = discovery.NewFileStore(flags.ledgerPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open discovery ledger: %w", err)
	}

	opts := []failspec.GovernorOption{
		failspec.WithLogger(logger),
		failspec.WithWorkspace(flags.workspace),
		failspec.WithGuardPolicy(policy),
		failspec.WithLedgerStore(store),
	}
	if flags.evidenceTimeout > 0 {
		opts = append(opts, failspec.WithEvidenceTimeout(flags.evidenceTimeout))
	}

	return failspec.NewGovernor(opts...)
}

// loadedGovernor builds a governor and loads the document from --file.
func loadedGovernor(flags *rootFlags) (*failspec.Governor, error) {
	gov, err := newGovernor(flags)
	if err != nil {
		return nil, err
	}
	if err := gov.Load(flags.file); err != nil {
		failspec.CloseWithLog(gov, nil, "governor")
		return nil, err
	}
	return gov, nil
}
