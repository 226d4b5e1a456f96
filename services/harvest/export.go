package harvest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fbharvest/lib/scrapers/fbgroup"

	"github.com/xuri/excelize/v2"
)

// flattened column order shared by the tabular formats
var exportColumns = []string{
	"createdAt",
	"url",
	"user.id",
	"user.name",
	"user.url",
	"text",
	"reactionCount",
	"shareCount",
	"commentCount",
	"attachments",
	"topComments",
}

// ExportPosts writes the batch into the requested formats (json, csv, xlsx)
// under dir as <baseName>.<ext>. json keeps the full nested structure, the
// tabular formats flatten the user and embed attachments/topComments as json
// text in a single cell. An empty batch skips export entirely.
func ExportPosts(ctx context.Context, posts []fbgroup.Post, dir, baseName string, formats []string) error {
	if len(posts) == 0 {
		slog.WarnContext(ctx, "no posts provided to exporter, skipping export")
		return nil
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	wanted := map[string]bool{}
	for _, f := range formats {
		wanted[strings.ToLower(strings.TrimSpace(f))] = true
	}

	if wanted["json"] {
		path := filepath.Join(dir, baseName+".json")
		if err := exportJson(posts, path); err != nil {
			return err
		}
		slog.InfoContext(ctx, "exported posts", "format", "json", "posts", len(posts), "path", path)
	}

	var rows [][]string
	if wanted["csv"] || wanted["xlsx"] {
		rows, err = flattenPosts(posts)
		if err != nil {
			return err
		}
	}

	if wanted["csv"] {
		path := filepath.Join(dir, baseName+".csv")
		if err := exportCsv(rows, path); err != nil {
			return err
		}
		slog.InfoContext(ctx, "exported posts", "format", "csv", "posts", len(posts), "path", path)
	}

	if wanted["xlsx"] {
		path := filepath.Join(dir, baseName+".xlsx")
		if err := exportXlsx(rows, path); err != nil {
			return err
		}
		slog.InfoContext(ctx, "exported posts", "format", "xlsx", "posts", len(posts), "path", path)
	}

	return nil
}

func flattenPosts(posts []fbgroup.Post) ([][]string, error) {
	rows := [][]string{exportColumns}
	for _, post := range posts {
		attachments, err := json.Marshal(post.Attachments)
		if err != nil {
			return nil, err
		}
		topComments, err := json.Marshal(post.TopComments)
		if err != nil {
			return nil, err
		}

		rows = append(rows, []string{
			strconv.FormatInt(post.CreatedAt, 10),
			post.Url,
			post.User.Id,
			post.User.Name,
			post.User.Url,
			post.Text,
			strconv.Itoa(post.ReactionCount),
			strconv.Itoa(post.ShareCount),
			strconv.Itoa(post.CommentCount),
			string(attachments),
			string(topComments),
		})
	}
	return rows, nil
}

func exportJson(posts []fbgroup.Post, path string) error {
	contents, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

func exportCsv(rows [][]string, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	err = writer.WriteAll(rows)
	if err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func exportXlsx(rows [][]string, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Sheet1"
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		err = file.SetSheetRow(sheet, cell, &cells)
		if err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx: %w", err)
	}
	return nil
}
