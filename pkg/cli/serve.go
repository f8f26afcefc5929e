package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theMackabu/ship/pkg/config"
	"github.com/theMackabu/ship/pkg/logging"
	"github.com/theMackabu/ship/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document server (foreground)",
	Example: `  # Serve using ./config.hcl
  shipd serve

  # Serve with an explicit configuration file
  shipd serve --config /etc/ship/config.hcl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Format: logging.ParseFormat(logFormat),
		})

		srv := server.New(cfg.Settings,
			server.WithLogger(log),
			server.WithVersion(Version),
		)
		if err := srv.Start(); err != nil {
			return err
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		log.Info("shutting down")
		return srv.Stop()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
