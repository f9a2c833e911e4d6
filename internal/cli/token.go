package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskmanager/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the API",
	Long: `Issue a signed bearer token for subject. The subject is recorded as createdBy
on tasks, templates and imports made with the token. Requires JWT_SECRET.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AuthEnabled() {
			return errors.New("JWT_SECRET is not set")
		}
		token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry()).Generate(args[0])
		if err != nil {
			return fmt.Errorf("signing token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
