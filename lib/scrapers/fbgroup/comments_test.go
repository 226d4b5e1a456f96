package fbgroup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractTopCommentsFromMarkup(t *testing.T) {
	page := `<html><body>
	<div role="article">
		<div dir="auto">post body</div>
		<div aria-label="Comment by Bob">
			<a href="/bob.smith">Bob Smith</a>
			<span>Nice post! 2 h</span>
		</div>
	</div>
	</body></html>`

	posts := ParsePosts(context.Background(), page, groupUrl)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].TopComments, 1)

	comment := posts[0].TopComments[0]
	require.Equal(t, "Bob Smith Nice post! 2 h", comment.Text)
	require.Equal(t, "Bob Smith", comment.Author.Name)
	require.Equal(t, "https://www.facebook.com/bob.smith", comment.Author.Url)
	require.InDelta(t, time.Now().UTC().Add(-2*time.Hour).Unix(), comment.CreatedAt, 1)
	require.Equal(t, 0, comment.ReactionCount)
	require.Equal(t, 0, comment.CommentCount)
}

func TestExtractTopCommentsFromScriptJson(t *testing.T) {
	page := `<html><body>
	<div role="article">
		<div dir="auto">post body</div>
		<script>window.__feed = {"edges": [
			{"node": {
				"text": "great deal",
				"author": {"name": "Ann", "id": "77", "url": "https://www.facebook.com/ann"},
				"created_time": 1715352299,
				"reaction_count": 4,
				"comment_count": 1
			}},
			{"node": {"body": "interested!", "author": {"name": "Joe"}}}
		]};</script>
	</div>
	</body></html>`

	posts := ParsePosts(context.Background(), page, groupUrl)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].TopComments, 2)

	first := posts[0].TopComments[0]
	require.Equal(t, "great deal", first.Text)
	require.Equal(t, User{Id: "77", Name: "Ann", Url: "https://www.facebook.com/ann"}, first.Author)
	require.Equal(t, int64(1715352299), first.CreatedAt)
	require.Equal(t, 4, first.ReactionCount)
	require.Equal(t, 1, first.CommentCount)

	second := posts[0].TopComments[1]
	require.Equal(t, "interested!", second.Text)
	require.Equal(t, "Joe", second.Author.Name)
	require.Equal(t, int64(0), second.CreatedAt)
}

func TestExtractTopCommentsScriptWithoutCommentKeyword(t *testing.T) {
	page := `<html><body>
	<div role="article">
		<div dir="auto">post body</div>
		<script>window.__feed = {"edges": [{"node": {"text": "ignored"}}]};</script>
	</div>
	</body></html>`

	posts := ParsePosts(context.Background(), page, groupUrl)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].TopComments, 0)
}

func TestExtractTopCommentsMalformedScriptJson(t *testing.T) {
	page := `<html><body>
	<div role="article">
		<div dir="auto">post body</div>
		<script>processComments({"comments": [broken...</script>
		<script>var x = {"comments": [{"text": "still works"}]};</script>
	</div>
	</body></html>`

	posts := ParsePosts(context.Background(), page, groupUrl)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].TopComments, 1)
	require.Equal(t, "still works", posts[0].TopComments[0].Text)
}
