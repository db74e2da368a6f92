package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophNotes/internal/db"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create or drop the notes and bookmarks tables",
	}

	cmd.PersistentFlags().String("dsn", os.Getenv("DATABASE_DSN"), "Postgres DSN (defaults to $DATABASE_DSN)")

	cmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create the tables and indexes if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, conn *sql.DB) error {
				if err := db.ApplySchema(ctx, conn); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drop",
		Short: "Drop the tables and every record in them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, conn *sql.DB) error {
				if err := db.DropSchema(ctx, conn); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema dropped")
				return nil
			})
		},
	})

	return cmd
}

func withDB(cmd *cobra.Command, fn func(context.Context, *sql.DB) error) error {
	dsn, err := cmd.Flags().GetString("dsn")
	if err != nil {
		return err
	}
	if dsn == "" {
		return fmt.Errorf("--dsn or DATABASE_DSN is required")
	}

	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(cmd.Context(), conn)
}
