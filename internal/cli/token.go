package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ghostname-service/internal/auth"
	"github.com/spec-kit/ghostname-service/internal/domain"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Email     string
	FirstName string
	LastName  string
}

// NewTokenCommand creates the token command, which mints bearer tokens for local use.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLMinutes)
			token, expires, err := tokens.GenerateToken(domain.Identity{
				Email:     opts.Email,
				FirstName: opts.FirstName,
				LastName:  opts.LastName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "identity email (required)")
	cmd.Flags().StringVar(&opts.FirstName, "given-name", "", "given_name claim")
	cmd.Flags().StringVar(&opts.LastName, "family-name", "", "family_name claim")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
