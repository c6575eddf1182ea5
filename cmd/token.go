package cmd

import (
	"ecommerce-backend/config"
	"ecommerce-backend/jwt"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"time"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token with the configured private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Auth.PrivateKeyPath == "" {
			return errors.New("auth.private_key_path is not configured")
		}

		signer, err := jwt.LoadSigner(cfg.Auth.PrivateKeyPath)
		if err != nil {
			return err
		}

		token, err := signer.GenerateToken(tokenSubject, tokenRole, time.Now().Add(tokenTTL).Unix())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "sub claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", jwt.AdminRole, "role claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
