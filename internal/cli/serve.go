package cli

import (
	"github.com/spf13/cobra"

	"taskmanager/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	s, err := server.Init(cfg)
	if err != nil {
		return err
	}
	return s.Run()
}
