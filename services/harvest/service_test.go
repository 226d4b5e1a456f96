package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fbharvest/lib/scrapers/fbgroup"
	"fbharvest/lib/testutil"
	"fbharvest/services/harvest/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const feedPage = `<html><body>
<div role="article">
	<a href="/groups/42/permalink/1/" role="link" tabindex="0">Jane Doe</a>
	<div dir="auto">selling a couch</div>
	<abbr data-utime="1715352299"></abbr>
</div>
</body></html>`

func TestHarvestAll(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/harvest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "" {
			fmt.Fprint(w, "<html><body></body></html>")
			return
		}
		fmt.Fprint(w, feedPage)
	}))
	defer server.Close()

	client := fbgroup.NewClient(fbgroup.ClientOptions{Timeout: time.Second * 5})
	service := NewService(client, setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	posts := service.HarvestAll(ctx, []string{server.URL}, HarvestOptions{})
	require.Len(t, posts, 1)
	require.Equal(t, "selling a couch", posts[0].Text)
	require.Equal(t, int64(1715352299), posts[0].CreatedAt)

	stored, err := ListPosts(ctx, setup.DB)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, server.URL, stored[0].GroupUrl)

	// harvesting again refreshes the rows instead of duplicating them
	service.HarvestAll(ctx, []string{server.URL}, HarvestOptions{})
	stored, err = ListPosts(ctx, setup.DB)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestSavePostsUpsert(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/harvest:upsert",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	post := fbgroup.Post{
		CreatedAt: 1715352299,
		Url:       "https://www.facebook.com/groups/42/permalink/1/",
		User:      fbgroup.User{Id: "1", Name: "Jane Doe", Url: "https://www.facebook.com/jane.doe"},
		Text:      "selling a couch",
		Attachments: []fbgroup.Attachment{
			{Type: fbgroup.AttachmentImage, Url: "https://cdn.example.com/couch.jpg", Alt: "couch"},
		},
		ReactionCount: 3,
		TopComments:   []fbgroup.Comment{},
	}

	err := SavePosts(ctx, setup.DB, "https://www.facebook.com/groups/42", []fbgroup.Post{post})
	require.NoError(t, err)

	post.ReactionCount = 7
	err = SavePosts(ctx, setup.DB, "https://www.facebook.com/groups/42", []fbgroup.Post{post})
	require.NoError(t, err)

	stored, err := ListPosts(ctx, setup.DB)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 7, stored[0].ReactionCount)
	require.Equal(t, post.Attachments, stored[0].Attachments)
	require.Equal(t, []fbgroup.Comment{}, stored[0].TopComments)
}

func TestListPostsEmpty(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/harvest:empty",
		DbSchema: db.Schema,
	})
	defer cleanup()

	stored, err := ListPosts(context.Background(), setup.DB)
	require.NoError(t, err)
	require.Len(t, stored, 0)
}
