package fbgroup

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"fbharvest/lib/chrono"
	"fbharvest/lib/htmlutil"
	"fbharvest/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ParsePosts extracts structured post records from one page of group feed
// html. groupUrl is the fallback permalink when a post has none. Containers
// that fail to parse are dropped individually, a bad container never aborts
// its siblings, and zero containers is a valid empty page.
func ParsePosts(ctx context.Context, html string, groupUrl string) []Post {
	ctx, span := tracer.Start(ctx, "ParsePosts")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse page html")
		slog.DebugContext(ctx, "failed to parse page html", "err", err)
		return []Post{}
	}

	// posts usually live in generic article roles, older feed markup
	// used aria-posinset divs and story_body_container
	containers := doc.Find("div[role='article']")
	if containers.Length() == 0 {
		containers = doc.Find("div[aria-posinset], div.story_body_container")
	}

	posts := []Post{}
	containers.Each(func(idx int, div *goquery.Selection) {
		post, ok := parsePost(ctx, div, groupUrl)
		if !ok {
			slog.DebugContext(ctx, "failed to parse post container", "index", idx)
			return
		}
		posts = append(posts, post)
	})

	span.SetAttributes(attribute.Int("posts", len(posts)))
	return posts
}

func parsePost(ctx context.Context, div *goquery.Selection, groupUrl string) (post Post, ok bool) {
	// heuristics over adversarial markup, a structural surprise in one
	// container must not take down the page
	defer func() {
		if r := recover(); r != nil {
			slog.DebugContext(ctx, "recovered while parsing post container", "panic", r)
			ok = false
		}
	}()

	reactions, comments, shares := extractEngagement(div)

	post = Post{
		CreatedAt:     extractCreatedAt(div),
		Url:           extractPostUrl(div, groupUrl),
		User:          extractUser(div),
		Text:          extractPostText(div),
		Attachments:   extractAttachments(div),
		ReactionCount: reactions,
		ShareCount:    shares,
		CommentCount:  comments,
		TopComments:   extractTopComments(ctx, div),
	}
	return post, true
}

type anchor struct {
	href        string
	text        string
	role        string
	hasTabindex bool
}

func findAnchors(div *goquery.Selection) []anchor {
	var anchors []anchor
	div.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		_, hasTabindex := a.Attr("tabindex")
		anchors = append(anchors, anchor{
			href:        a.AttrOr("href", ""),
			text:        htmlutil.CleanText(htmlutil.FlattenSelection(a)),
			role:        a.AttrOr("role", ""),
			hasTabindex: hasTabindex,
		})
	})
	return anchors
}

func extractPostUrl(div *goquery.Selection, groupUrl string) string {
	anchors := findAnchors(div)

	// permalink anchors first, skipping comment action labels
	for _, a := range anchors {
		if strings.Contains(a.text, "Comment") {
			continue
		}
		if strings.Contains(a.href, "permalink") {
			return NormalizeUrl(a.href)
		}
	}

	for _, a := range anchors {
		if strings.Contains(a.href, "/posts/") || strings.Contains(a.href, "/permalink/") {
			return NormalizeUrl(a.href)
		}
	}

	return groupUrl
}

func extractUser(div *goquery.Selection) User {
	for _, a := range findAnchors(div) {
		// profile links are interactive: either an explicit link role
		// or keyboard-focusable
		if a.role != "link" && !a.hasTabindex {
			continue
		}
		if a.text == "" {
			continue
		}
		profileUrl := NormalizeUrl(a.href)
		return User{
			Id:   deriveUserId(profileUrl),
			Name: a.text,
			Url:  profileUrl,
		}
	}
	return User{}
}

func extractPostText(div *goquery.Selection) string {
	var parts []string
	div.Find("div[dir='auto'], span[dir='auto']").Each(func(_ int, block *goquery.Selection) {
		text := htmlutil.FlattenSelection(block)
		if text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	return htmlutil.FlattenSelection(div)
}

func extractAttachments(div *goquery.Selection) []Attachment {
	var attachments []Attachment

	div.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			return
		}
		attachments = append(attachments, Attachment{
			Type: AttachmentImage,
			Url:  src,
			Alt:  img.AttrOr("alt", ""),
		})
	})

	for _, a := range findAnchors(div) {
		if a.href == "" {
			continue
		}
		// internal profile/group links aren't attachments
		if strings.Contains(a.href, "facebook.com") && !strings.Contains(a.href, "groups") {
			continue
		}
		if textutil.ContainsAny(a.href, []string{"comment"}) {
			continue
		}
		attachments = append(attachments, Attachment{
			Type: AttachmentLink,
			Url:  NormalizeUrl(a.href),
			Text: a.text,
		})
	}

	return dedupAttachments(attachments)
}

type attachmentKey struct {
	kind string
	url  string
}

// dedupAttachments drops duplicate (type, url) pairs, first occurrence wins.
func dedupAttachments(attachments []Attachment) []Attachment {
	seen := map[attachmentKey]bool{}
	unique := []Attachment{}
	for _, att := range attachments {
		key := attachmentKey{kind: att.Type, url: att.Url}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, att)
	}
	return unique
}

func extractEngagement(div *goquery.Selection) (reactions, comments, shares int) {
	flat := textutil.Fold(htmlutil.FlattenSelection(div))

	if n, ok := parseCountBefore(flat, "reactions"); ok {
		reactions = n
	}
	if n, ok := parseCountBefore(flat, "comments"); ok {
		comments = n
	}
	if n, ok := parseCountBefore(flat, "shares"); ok {
		shares = n
	}
	return reactions, comments, shares
}

// parseCountBefore finds the token immediately preceding label in the folded
// text and parses it as a count, honoring a "k" thousands suffix ("1.2k").
func parseCountBefore(flat, label string) (int, bool) {
	idx := strings.Index(flat, label)
	if idx < 0 {
		return 0, false
	}
	fields := strings.Fields(flat[:idx])
	if len(fields) == 0 {
		return 0, false
	}
	last := fields[len(fields)-1]

	if strings.Contains(last, "k") {
		f, err := strconv.ParseFloat(strings.ReplaceAll(last, "k", ""), 64)
		if err != nil {
			return 0, false
		}
		return int(f * 1000), true
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return n, true
}

// attribute names that carry timestamps, in priority order
var timestampAttrs = []string{"data-utime", "data-tooltip-content", "datetime", "title"}

func extractCreatedAt(div *goquery.Selection) int64 {
	var resolved int64
	found := false

	div.Find("abbr, span, a").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		for _, name := range timestampAttrs {
			raw := el.AttrOr(name, "")
			if raw == "" {
				continue
			}
			if ts, ok := chrono.Normalize(raw); ok {
				resolved = ts
				found = true
				return false
			}
		}
		return true
	})
	if found {
		return resolved
	}

	// inline relative times ("2 h", "3 d") end up in the flattened text
	if ts, ok := chrono.Normalize(htmlutil.FlattenSelection(div)); ok {
		return ts
	}

	ts, _ := chrono.Normalize("now")
	return ts
}
