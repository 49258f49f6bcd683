package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/config"
)

// newMintTokenCmd prints a signed credential for the given subject.  It
// needs only the signing settings and does not look the subject up, so the
// operator must name an existing username.  It is how the first admin
// credential is obtained, since registration never grants the admin role.
func newMintTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mint-token",
		Short: "Print a signed session credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			s, err := config.LoadSigning()
			if err != nil {
				return err
			}
			if ttl > 0 {
				s.SessionTTL = ttl
			}
			issuer, err := auth.NewIssuer(s.JWTSecret, s.SessionTTL)
			if err != nil {
				return err
			}
			cred, err := issuer.Issue(subject, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cred.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "subject=%s role=%s expires=%s\n", cred.Subject, cred.Role, cred.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "existing username the credential is issued to (not checked)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "role claim: user or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "validity window (defaults to SESSION_TTL)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
