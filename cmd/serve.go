package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/libproxy-go/libproxy/internal/dbussvc"
	"github.com/libproxy-go/libproxy/internal/engine"
	"github.com/libproxy-go/libproxy/internal/engineopts"
	"github.com/libproxy-go/libproxy/internal/metrics"
	"github.com/libproxy-go/libproxy/internal/version"
)

var (
	dbusSystem  bool //nolint:gochecknoglobals // cobra command flag
	dbusReplace bool //nolint:gochecknoglobals // cobra command flag
	forceOnline bool //nolint:gochecknoglobals // cobra command flag
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the D-Bus proxy resolution service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := zerolog.Ctx(ctx)

			log.Info().
				Str("version", version.GetVersion()).
				Str("build_time", version.GetBuildTime()).
				Msg("libproxyd starting")

			metrics.RegisterCollectors()
			metrics.BindService()

			eng := engine.New(engineopts.Options{
				ConfigPlugin: configPlugin,
				ConfigOption: configOption,
				ForceOnline:  forceOnline,
			})
			defer eng.Close()

			return dbussvc.Run(ctx, eng, dbussvc.Options{System: dbusSystem, Replace: dbusReplace})
		},
	}

	cmd.Flags().BoolVar(&dbusSystem, "system", false, "Attach to the system bus instead of the session bus")
	cmd.Flags().BoolVar(&dbusReplace, "replace", false, "Take ownership from any existing bus name owner")
	cmd.Flags().BoolVar(&forceOnline, "force-online", false, "Skip the network monitor and treat the network as always available")

	return cmd
}
