package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prabalesh/paneltop/internal/config"
	"github.com/prabalesh/paneltop/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for restart and clear-cache",
	Long:  `Signs a token with the configured auth secret. Give it to dashboards with --token or PANELTOP_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := server.NewAuth(viper.GetString(config.KeyAuthSecret))
		if auth == nil {
			return fmt.Errorf("auth secret is required (--auth-secret or PANELTOP_AUTH_SECRET)")
		}

		operator, _ := cmd.Flags().GetString("operator")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := auth.GenerateToken(operator, ttl)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("operator", "operator", "name recorded in the token")
	tokenCmd.Flags().Duration("ttl", server.DefaultTokenExpiry, "token lifetime")
}
