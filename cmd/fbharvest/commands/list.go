package commands

import (
	"os"
	"time"

	"fbharvest/lib/serviceutil"
	"fbharvest/lib/sqliteutil"
	"fbharvest/services/harvest"
	"fbharvest/services/harvest/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var listDb *string

func init() {
	listDb = listCmd.Flags().String("db", "results.db", "The database to read posts from.")
	rootCmd.AddCommand(listCmd)
}

// truncate cuts on rune boundaries so multi-byte text stays valid utf-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

var listCmd = &cobra.Command{
	Use:   "list [--db <path/to/results.db>]",
	Short: "Lists the posts stored in a scrape results database.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := sqliteutil.OpenDB(db.Schema, *listDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		posts, err := harvest.ListPosts(cmd.Context(), database)
		if err != nil {
			serviceutil.Fatal("failed to list posts", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Created", "Author", "Text", "Reactions", "Comments", "Shares", "Url",
		})
		for _, post := range posts {
			t.AppendRow(table.Row{
				time.Unix(post.CreatedAt, 0).UTC().Format(time.DateTime),
				post.User.Name,
				truncate(post.Text, 48),
				post.ReactionCount,
				post.CommentCount,
				post.ShareCount,
				truncate(post.Url, 64),
			})
		}
		t.Render()
	},
}
