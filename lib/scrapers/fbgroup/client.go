package fbgroup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fbharvest/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/129.0 Safari/537.36"

// Client fetches group feed pages over an authenticated session. The session
// itself is supplied as a cookie header, acquiring it is out of scope.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// session cookie header value, sent verbatim
	SessionCookie string
	// defaults to a desktop chrome user agent
	UserAgent string
	// optional proxy url
	Proxy string
	// defaults to 10 seconds
	Timeout time.Duration
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 10
	}
	client.SetTimeout(timeout)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	if opts.SessionCookie != "" {
		client.SetHeader("Cookie", opts.SessionCookie)
	}
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}

	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	return &Client{http: client}
}

// SetInstrumentOutput enables http transcript dumping for debugging sessions.
func (c *Client) SetInstrumentOutput(out restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.http, tracer, out)
}

// FetchGroupPage fetches a single page of the group feed. Pagination uses a
// simple ?page= query, which real-world markup may need adjusted.
func (c *Client) FetchGroupPage(ctx context.Context, groupUrl string, page int) (string, error) {
	pageUrl := groupUrl
	if page > 1 {
		separator := "?"
		if strings.Contains(groupUrl, "?") {
			separator = "&"
		}
		pageUrl = fmt.Sprintf("%s%spage=%d", groupUrl, separator, page)
	}

	slog.DebugContext(ctx, "requesting feed page", "url", pageUrl)

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("unexpected status %s fetching %s", res.Status(), pageUrl)
	}
	return res.String(), nil
}

// FetchGroupPosts pages through the group feed until maxPosts are collected
// or paginationLimit pages were fetched. A failed fetch or an empty page
// stops paging, returning whatever was collected so far.
func (c *Client) FetchGroupPosts(ctx context.Context, groupUrl string, maxPosts, paginationLimit int) []Post {
	ctx, span := tracer.Start(ctx, "FetchGroupPosts")
	defer span.End()

	posts := []Post{}
	page := 1

	for len(posts) < maxPosts && page <= paginationLimit {
		slog.DebugContext(ctx, "fetching feed page", "page", page, "group", groupUrl)

		html, err := c.FetchGroupPage(ctx, groupUrl, page)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch feed page", "page", page, "err", err)
			break
		}

		pagePosts := ParsePosts(ctx, html, groupUrl)
		slog.DebugContext(ctx, "parsed feed page", "page", page, "posts", len(pagePosts))

		// no more posts, or this page couldn't be parsed at all
		if len(pagePosts) == 0 {
			break
		}

		posts = append(posts, pagePosts...)
		if len(posts) >= maxPosts {
			break
		}
		page++
	}

	if len(posts) > maxPosts {
		posts = posts[:maxPosts]
	}
	return posts
}
