package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libproxy-go/libproxy/internal/engineopts"
	"github.com/libproxy-go/libproxy/internal/logging"
	verpkg "github.com/libproxy-go/libproxy/internal/version"
)

var (
	logLevel     string //nolint:gochecknoglobals // cobra command flag
	logFormat    string //nolint:gochecknoglobals // cobra command flag
	configPlugin string //nolint:gochecknoglobals // cobra command flag
	configOption string //nolint:gochecknoglobals // cobra command flag
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "libproxyd",
		Short:         "Proxy auto-configuration resolution daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel
			if !cmd.Flags().Changed("log-level") && engineopts.DebugEnabled() {
				level = "debug"
			}

			base := logging.Base("libproxyd", level, logFormat)
			ctx := base.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format: json, console")
	rootCmd.PersistentFlags().StringVar(&configPlugin, "config-plugin", "", "Restrict resolution to one named config source")
	rootCmd.PersistentFlags().StringVar(&configOption, "config-option", "", "Opaque per-source parameter, e.g. a file path")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newDebugCmd())

	rootCmd.Version = verpkg.GetVersion()
	rootCmd.SetVersionTemplate("libproxyd " + verpkg.GetVersion())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
