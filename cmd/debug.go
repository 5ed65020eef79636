package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libproxy-go/libproxy/internal/engine"
	"github.com/libproxy-go/libproxy/internal/engineopts"
)

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <url>",
		Short: "Print the raw config candidates for a URL, before PAC expansion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(engineopts.Options{
				ConfigPlugin: configPlugin,
				ConfigOption: configOption,
				ForceOnline:  forceOnline,
			})
			defer eng.Close()

			for _, c := range eng.GetConfiguration(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}

			return nil
		},
	}
}
