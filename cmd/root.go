package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nvkha/domlook/internal/checker"
	"github.com/nvkha/domlook/internal/session"
)

var cfgFile string
var verbose bool
var logger *zap.SugaredLogger

var rootCmd = &cobra.Command{
	Use:   "domlook",
	Short: "Interactive domain availability checker",
	Long: `domlook checks domain-name availability through WHOIS lookups.

Domains are read interactively from standard input, validated, looked up
against the registry, and classified as available, registered, or
indeterminate. Available names accumulate into a summary printed when the
session ends (type quit/exit/q, or press Ctrl+C).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
			}
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".domlook")
			viper.SetConfigType("yaml")
			// Missing ~/.domlook.yaml is fine; an existing but broken one is not.
			if err := viper.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return fmt.Errorf("failed to read config file: %w", err)
				}
			}
		}

		// init logger
		var l *zap.Logger
		var err error
		if verbose {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l.Sugar()

		return nil
	},
	RunE: runInteractive,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.domlook.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.CheckErr(bindLookupFlags(rootCmd.PersistentFlags()))

	rootCmd.AddCommand(versionCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig()
	logger.Debugw("session config",
		"lookup_timeout", cfg.LookupTimeout,
		"query_delay", cfg.QueryDelay,
		"retry_count", cfg.RetryCount,
		"rdap_fallback", cfg.RDAPFallback,
		"dedup_available", cfg.DedupAvailable)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, colorHeading("\n=== Domain Availability Checker ==="))
	fmt.Fprintln(out, "Enter domain names to check (type 'quit' or 'exit' to finish)")
	fmt.Fprintln(out, "Press Ctrl+C to exit at any time")

	sess := &session.Session{
		In:              cmd.InOrStdin(),
		Out:             out,
		Checker:         buildChecker(cfg),
		Limiter:         rate.NewLimiter(rate.Every(cfg.QueryDelay), 1),
		AllowDuplicates: !cfg.DedupAvailable,
		Log:             logger,
		Good:            colorGood,
		Bad:             colorBad,
		Warn:            colorWarn,
	}

	state, runErr := sess.Run(ctx)

	// The summary is owed on every exit path, interrupts included.
	reporter := &session.Reporter{Out: out, Heading: colorHeading, Good: colorGood}
	reporter.Write(state)

	return runErr
}

// buildChecker assembles the lookup backend: WHOIS alone, or WHOIS with an
// RDAP second opinion when the fallback is enabled.
func buildChecker(cfg Config) checker.DomainChecker {
	wc := checker.NewWhoisChecker(cfg.LookupTimeout, logger)
	wc.Retries = cfg.RetryCount
	if !cfg.RDAPFallback {
		return wc
	}
	return &checker.FallbackChecker{
		Primary:   wc,
		Secondary: checker.NewRDAPChecker(logger),
		Log:       logger,
	}
}
