package harvest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fbharvest/lib/scrapers/fbgroup"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePosts() []fbgroup.Post {
	return []fbgroup.Post{
		{
			CreatedAt: 1715352299,
			Url:       "https://www.facebook.com/groups/42/permalink/1/",
			User:      fbgroup.User{Id: "7", Name: "Jane Doe", Url: "https://www.facebook.com/jane.doe"},
			Text:      "selling a couch",
			Attachments: []fbgroup.Attachment{
				{Type: fbgroup.AttachmentImage, Url: "https://cdn.example.com/couch.jpg", Alt: "couch"},
			},
			ReactionCount: 12,
			ShareCount:    1,
			CommentCount:  3,
			TopComments: []fbgroup.Comment{
				{Text: "interested!", Author: fbgroup.User{Name: "Bob"}},
			},
		},
		{
			CreatedAt:   1715352300,
			Url:         "https://www.facebook.com/groups/42/permalink/2/",
			Text:        "free table",
			Attachments: []fbgroup.Attachment{},
			TopComments: []fbgroup.Comment{},
		},
	}
}

func TestExportPosts(t *testing.T) {
	dir := t.TempDir()
	posts := samplePosts()

	err := ExportPosts(context.Background(), posts, dir, "posts", []string{"json", "csv", "xlsx"})
	require.NoError(t, err)

	// json keeps the full nested structure
	contents, err := os.ReadFile(filepath.Join(dir, "posts.json"))
	require.NoError(t, err)
	var decoded []fbgroup.Post
	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Empty(t, cmp.Diff(posts, decoded))

	// csv flattens, with nested structures as embedded json
	file, err := os.Open(filepath.Join(dir, "posts.csv"))
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, exportColumns, rows[0])
	require.Equal(t, "1715352299", rows[1][0])
	require.Equal(t, "Jane Doe", rows[1][3])

	var attachments []fbgroup.Attachment
	require.NoError(t, json.Unmarshal([]byte(rows[1][9]), &attachments))
	require.Equal(t, posts[0].Attachments, attachments)

	var topComments []fbgroup.Comment
	require.NoError(t, json.Unmarshal([]byte(rows[1][10]), &topComments))
	require.Equal(t, posts[0].TopComments, topComments)

	// xlsx carries the same flattened rows
	sheet, err := excelize.OpenFile(filepath.Join(dir, "posts.xlsx"))
	require.NoError(t, err)
	defer sheet.Close()
	cell, err := sheet.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	require.Equal(t, posts[0].Url, cell)
}

func TestExportPostsSubsetOfFormats(t *testing.T) {
	dir := t.TempDir()

	err := ExportPosts(context.Background(), samplePosts(), dir, "posts", []string{"json"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "posts.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "posts.csv"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "posts.xlsx"))
	require.True(t, os.IsNotExist(err))
}

func TestExportPostsEmptyBatch(t *testing.T) {
	dir := t.TempDir()

	err := ExportPosts(context.Background(), nil, dir, "posts", []string{"json", "csv"})
	require.NoError(t, err)

	// nothing to export, nothing written
	_, err = os.Stat(filepath.Join(dir, "posts.json"))
	require.True(t, os.IsNotExist(err))
}
