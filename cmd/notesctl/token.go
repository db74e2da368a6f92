package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophNotes/internal/auth"
)

var (
	tokenSecret string
	tokenUser   string
	tokenTTL    time.Duration
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer token utilities",
	}

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Print a signed bearer token for a user",
		Long: `Print an HS256 token whose subject is the given user id.

Examples:
  notesctl token issue --secret s3cret --user alice
  JWT_SECRET=s3cret notesctl token issue --user bob --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: runIssue,
	}
	issue.Flags().StringVar(&tokenSecret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (defaults to $JWT_SECRET)")
	issue.Flags().StringVar(&tokenUser, "user", "", "user id to place in the subject claim")
	issue.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = issue.MarkFlagRequired("user")

	cmd.AddCommand(issue)
	return cmd
}

func runIssue(cmd *cobra.Command, args []string) error {
	if tokenSecret == "" {
		return fmt.Errorf("--secret or JWT_SECRET is required")
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	token, err := auth.Issue(tokenSecret, tokenUser, tokenTTL)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
