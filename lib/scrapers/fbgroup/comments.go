package fbgroup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"fbharvest/lib/chrono"
	"fbharvest/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// extractTopComments pulls whatever comments are visible in the container
// markup. Comments are usually loaded dynamically, so this may legitimately
// return an empty list, in which case the embedded script json fallback is
// attempted.
func extractTopComments(ctx context.Context, div *goquery.Selection) []Comment {
	comments := []Comment{}

	div.Find("div[aria-label*='Comment']").Each(func(_ int, cdiv *goquery.Selection) {
		var author User
		first := cdiv.Find("a[href]").First()
		if first.Length() > 0 {
			name := strings.TrimSpace(htmlutil.FlattenSelection(first))
			if name != "" {
				author = User{
					Name: name,
					Url:  NormalizeUrl(first.AttrOr("href", "")),
				}
			}
		}

		text := htmlutil.FlattenSelection(cdiv)
		createdAt, _ := chrono.Normalize(text)

		comments = append(comments, Comment{
			Text:      text,
			CreatedAt: createdAt,
			Author:    author,
		})
	})

	if len(comments) == 0 {
		comments = append(comments, commentsFromScripts(ctx, div)...)
	}

	return comments
}

// commentsFromScripts scans embedded script blocks mentioning comments for a
// json object and maps its comments/edges list into Comment values. The
// schema is unknown and variable, so every lookup tolerates missing keys and
// a block that fails to parse is skipped silently.
func commentsFromScripts(ctx context.Context, div *goquery.Selection) []Comment {
	comments := []Comment{}

	for _, script := range div.Find("script").Nodes {
		text := htmlutil.GetText(script)
		if !strings.Contains(strings.ToLower(text), "comment") {
			continue
		}

		start := strings.IndexByte(text, '{')
		end := strings.LastIndexByte(text, '}')
		if start == -1 || end == -1 || end <= start {
			continue
		}

		var data map[string]any
		err := json.Unmarshal([]byte(text[start:end+1]), &data)
		if err != nil {
			slog.DebugContext(ctx, "failed to parse comment script json", "err", err)
			continue
		}

		items, _ := data["comments"].([]any)
		if len(items) == 0 {
			items, _ = data["edges"].([]any)
		}

		for _, item := range items {
			node, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if inner, ok := node["node"].(map[string]any); ok {
				node = inner
			}

			text := stringField(node, "text")
			if text == "" {
				text = stringField(node, "body")
			}

			var createdAt int64
			if raw, ok := firstField(node, "created_time", "created_at"); ok {
				createdAt, _ = chrono.Normalize(rawString(raw))
			}

			author, _ := node["author"].(map[string]any)
			comments = append(comments, Comment{
				Text:      text,
				CreatedAt: createdAt,
				Author: User{
					Id:   stringField(author, "id"),
					Name: stringField(author, "name"),
					Url:  stringField(author, "url"),
				},
				ReactionCount: intField(node, "reaction_count"),
				CommentCount:  intField(node, "comment_count"),
			})
		}
	}

	return comments
}

func firstField(node map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := node[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(node map[string]any, key string) string {
	if node == nil {
		return ""
	}
	s, _ := node[key].(string)
	return s
}

func intField(node map[string]any, key string) int {
	if node == nil {
		return 0
	}
	switch v := node[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// rawString renders a json value the way a timestamp field expects: whole
// numbers without an exponent or trailing zeros.
func rawString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
