package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/auditkit/lockaudit/pkg/audit"
	"github.com/auditkit/lockaudit/pkg/config"
	"github.com/auditkit/lockaudit/pkg/exitcode"
	"github.com/auditkit/lockaudit/pkg/logger"
	"github.com/auditkit/lockaudit/pkg/policy"
	"github.com/auditkit/lockaudit/pkg/registry"
	"github.com/auditkit/lockaudit/pkg/report"
	"github.com/auditkit/lockaudit/pkg/resolver"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lockaudit [flags] <lockfile>",
		Short: "Dependency-license compliance auditor",
		Long: `Lockaudit verifies that every third-party dependency in a lock manifest
declares an approved open-source license, and can emit a structured
attribution report for redistribution notices.

Diagnostics go to stderr; the attribution report (with --ossreadme) goes
to stdout. Exit code 0 means every dependency passed policy.

Examples:
   lockaudit Cargo.lock              # Audit only
   lockaudit --ossreadme Cargo.lock  # Audit plus attribution report`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		RunE: runAudit,
	}

	// Global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Audit flags
	cmd.Flags().Bool("ossreadme", false, "Emit the attribution report to stdout")
	cmd.Flags().String("format", "json", "Attribution report format (json, markdown)")
	cmd.Flags().String("policy", "", "License policy file (default: built-in MIT allow-list)")
	cmd.Flags().String("self", "", "The audited project's own package name, excluded from the audit")
	cmd.Flags().Int("concurrency", 0, "Concurrent registry lookups (default 10)")

	cmd.AddCommand(newVersionCommand())

	// Accept the hyphenated spellings that show up in CI configs.
	cmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "oss-readme":
			name = "ossreadme"
		case "logLevel":
			name = "log-level"
		}
		return pflag.NormalizedName(name)
	})

	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and translates failure into the process exit
// code. This is the only place the process exits; the audit core reports
// results and errors without process-level side effects.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Audit failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var unavailable *registry.UnavailableError
	var rateLimited *resolver.RateLimitError
	switch {
	case errors.As(err, &unavailable), errors.As(err, &rateLimited):
		return exitcode.NetworkError
	default:
		return exitcode.GeneralError
	}
}

func runAudit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags take precedence over environment configuration.
	if self, _ := cmd.Flags().GetString("self"); self != "" {
		cfg.SelfName = self
	}
	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		cfg.Concurrency = concurrency
	}
	if policyPath, _ := cmd.Flags().GetString("policy"); policyPath != "" {
		cfg.PolicyPath = policyPath
	}

	policyCfg := policy.Default()
	if cfg.PolicyPath != "" {
		policyCfg, err = policy.LoadFile(cfg.PolicyPath)
		if err != nil {
			return err
		}
	}

	ossReadme, _ := cmd.Flags().GetBool("ossreadme")
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "markdown" {
		return fmt.Errorf("unsupported report format %q (expected json or markdown)", format)
	}

	result, err := audit.Run(cmd.Context(), audit.Options{
		LockfilePath: args[0],
		SelfName:     cfg.SelfName,
		Concurrency:  cfg.Concurrency,
		OSSReadme:    ossReadme,
		Policy:       policyCfg,
		Registry:     registry.NewCratesClient(cfg.RegistryBaseURL, cfg.RequestTimeout),
		Resolver:     resolver.New(cfg.GitHubToken, cfg.RequestTimeout),
		Diagnostics:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	if ossReadme {
		switch format {
		case "markdown":
			err = report.WriteMarkdown(cmd.OutOrStdout(), result.Records)
		default:
			err = report.WriteJSON(cmd.OutOrStdout(), result.Records)
		}
		if err != nil {
			return err
		}
	}

	if !result.Passed {
		failed := 0
		for _, c := range result.Checks {
			if !c.Approved {
				failed++
			}
		}
		return fmt.Errorf("license audit failed: %d of %d dependencies not approved, %d policy denials",
			failed, len(result.Checks), len(result.Denials))
	}

	logger.Info("all dependencies approved", logger.Int("count", len(result.Checks)))
	return nil
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger.Initialize(logger.Config{
		Level:    logger.ParseLevel(logLevelStr),
		UseColor: !noColor && !jsonLogs,
		JSON:     jsonLogs,
	})
}
