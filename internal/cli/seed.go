package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"taskmanager/internal/database"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the built-in task types if they are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		types := service.NewTaskTypeService(repository.NewStore(db))
		ctx := log.Logger.WithContext(cmd.Context())
		if err := types.EnsureDefaults(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Default task types are present")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
