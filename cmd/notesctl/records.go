package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophNotes/internal/client"
	"github.com/atinyakov/GophNotes/internal/models"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// recordsCmd builds the "notes" or "bookmarks" command group.
func recordsCmd(kind string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind,
		Short: "List, add and remove " + kind + " through the API",
	}
	cmd.PersistentFlags().String("server", envOr("NOTES_SERVER", "http://localhost:8080"), "API base URL (defaults to $NOTES_SERVER)")
	cmd.PersistentFlags().String("token", os.Getenv("NOTES_TOKEN"), "bearer token (defaults to $NOTES_TOKEN)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + kind,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			q, _ := cmd.Flags().GetString("q")
			tags, _ := cmd.Flags().GetString("tags")

			var out any
			if kind == client.Notes {
				out, err = c.ListNotes(cmd.Context(), q, tags)
			} else {
				out, err = c.ListBookmarks(cmd.Context(), q, tags)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	list.Flags().String("q", "", "free-text search")
	list.Flags().String("tags", "", "comma-separated tags, any of which must match")

	add := &cobra.Command{
		Use:   "add",
		Short: "Create one of the " + kind,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			fav, _ := cmd.Flags().GetBool("favorite")

			var out any
			if kind == client.Notes {
				content, _ := cmd.Flags().GetString("content")
				out, err = c.CreateNote(cmd.Context(), models.NoteInput{
					Title: title, Content: content, Tags: tags, IsFavorite: fav,
				})
			} else {
				u, _ := cmd.Flags().GetString("url")
				desc, _ := cmd.Flags().GetString("description")
				out, err = c.CreateBookmark(cmd.Context(), models.BookmarkInput{
					URL: u, Title: title, Description: desc, Tags: tags, IsFavorite: fav,
				})
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	add.Flags().String("title", "", "title")
	add.Flags().StringSlice("tag", nil, "tag (repeatable)")
	add.Flags().Bool("favorite", false, "mark as favorite")
	if kind == client.Notes {
		add.Flags().String("content", "", "note body")
	} else {
		add.Flags().String("url", "", "bookmarked URL")
		add.Flags().String("description", "", "description")
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete one of the " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			msg, err := c.Delete(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}

func apiClient(cmd *cobra.Command) (*client.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		return nil, fmt.Errorf("--token or NOTES_TOKEN is required")
	}
	return client.New(server, token), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
