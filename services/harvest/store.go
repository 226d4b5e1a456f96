package harvest

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"fbharvest/lib/scrapers/fbgroup"
)

// StoredPost is a harvested post plus the group it came from and when it
// was scraped.
type StoredPost struct {
	fbgroup.Post
	GroupUrl  string `json:"groupUrl"`
	ScrapedAt int64  `json:"scrapedAt"`
}

// SavePosts upserts a batch of posts scraped from one group. Re-scraping the
// same post refreshes its row rather than duplicating it.
func SavePosts(ctx context.Context, db *sql.DB, groupUrl string, posts []fbgroup.Post) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posts (
			url, created_at,
			user_id, user_name, user_url,
			text, reaction_count, share_count, comment_count,
			attachments, top_comments,
			group_url, scraped_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url, created_at) DO UPDATE SET
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_url = excluded.user_url,
			text = excluded.text,
			reaction_count = excluded.reaction_count,
			share_count = excluded.share_count,
			comment_count = excluded.comment_count,
			attachments = excluded.attachments,
			top_comments = excluded.top_comments,
			group_url = excluded.group_url,
			scraped_at = excluded.scraped_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, post := range posts {
		attachments, err := json.Marshal(post.Attachments)
		if err != nil {
			return err
		}
		topComments, err := json.Marshal(post.TopComments)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(
			ctx,
			post.Url, post.CreatedAt,
			post.User.Id, post.User.Name, post.User.Url,
			post.Text, post.ReactionCount, post.ShareCount, post.CommentCount,
			string(attachments), string(topComments),
			groupUrl, now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListPosts returns every stored post, newest first.
func ListPosts(ctx context.Context, db *sql.DB) ([]StoredPost, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT url, created_at,
			user_id, user_name, user_url,
			text, reaction_count, share_count, comment_count,
			attachments, top_comments,
			group_url, scraped_at
		FROM posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []StoredPost
	for rows.Next() {
		var post StoredPost
		var attachments, topComments string

		err := rows.Scan(
			&post.Url, &post.CreatedAt,
			&post.User.Id, &post.User.Name, &post.User.Url,
			&post.Text, &post.ReactionCount, &post.ShareCount, &post.CommentCount,
			&attachments, &topComments,
			&post.GroupUrl, &post.ScrapedAt,
		)
		if err != nil {
			return nil, err
		}

		post.Attachments = []fbgroup.Attachment{}
		post.TopComments = []fbgroup.Comment{}
		if err := json.Unmarshal([]byte(attachments), &post.Attachments); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(topComments), &post.TopComments); err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}
	return posts, rows.Err()
}
