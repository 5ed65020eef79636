package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libproxy-go/libproxy/internal/engine"
	"github.com/libproxy-go/libproxy/internal/engineopts"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <url>",
		Short: "Resolve the proxies for a URL, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(engineopts.Options{
				ConfigPlugin: configPlugin,
				ConfigOption: configOption,
				ForceOnline:  forceOnline,
			})
			defer eng.Close()

			for _, p := range eng.GetProxies(cmd.Context(), args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			return nil
		},
	}
}
